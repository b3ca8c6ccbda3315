package model

import "time"

const (
	QuestionTypeMCQ  = "mcq"
	QuestionTypeText = "text"
)

// swagger:model Assessment
type Assessment struct {
	BaseModel
	ClassroomID uint                `gorm:"index;not null" json:"classroom_id"`
	Title       string              `gorm:"size:255;not null" json:"title"`
	Type        string              `gorm:"size:50" json:"type"`
	TotalMarks  int                 `gorm:"default:0" json:"total_marks"`
	CreatedBy   uint                `gorm:"index" json:"created_by"`
	Sections    []AssessmentSection `gorm:"foreignKey:AssessmentID" json:"sections,omitempty"`
}

func (Assessment) TableName() string {
	return "assessments"
}

// swagger:model AssessmentSection
type AssessmentSection struct {
	BaseModel
	AssessmentID uint                 `gorm:"index;not null" json:"assessment_id"`
	Title        string               `gorm:"size:255" json:"title"`
	StartAt      time.Time            `gorm:"not null" json:"start_at"`
	EndAt        time.Time            `gorm:"not null" json:"end_at"`
	Questions    []AssessmentQuestion `gorm:"foreignKey:SectionID" json:"questions,omitempty"`
}

func (AssessmentSection) TableName() string {
	return "assessment_sections"
}
