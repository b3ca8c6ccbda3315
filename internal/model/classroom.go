package model

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// swagger:model Classroom
type Classroom struct {
	BaseModel
	Code      string         `gorm:"size:32;uniqueIndex;not null" json:"code"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	LogoKey   string         `gorm:"size:255" json:"logo_key"`
	TeacherID *uint          `gorm:"index" json:"teacher_id,omitempty"`
	Days      datatypes.JSON `json:"days"`                      // ["Mon","Wed"] 或 ["Monday"]
	StartTime string         `gorm:"size:8" json:"start_time"` // HH:MM 或 HH:MM:SS
	EndTime   string         `gorm:"size:8" json:"end_time"`
}

func (Classroom) TableName() string {
	return "classrooms"
}

// ScheduleDays 解析 days 字段，NULL 或空表示每天
func (c *Classroom) ScheduleDays() ([]string, error) {
	if len(c.Days) == 0 || string(c.Days) == "null" {
		return nil, nil
	}
	var days []string
	if err := json.Unmarshal(c.Days, &days); err != nil {
		return nil, err
	}
	return days, nil
}

type Enrollment struct {
	BaseModel
	ClassroomID uint `gorm:"not null;uniqueIndex:idx_enrollment_classroom_student" json:"classroom_id"`
	StudentID   uint `gorm:"not null;uniqueIndex:idx_enrollment_classroom_student;index" json:"student_id"`
}

func (Enrollment) TableName() string {
	return "classroom_enrollments"
}
