package model

// swagger:model TimetableEntry
type TimetableEntry struct {
	BaseModel
	ClassroomID uint   `gorm:"index;not null" json:"classroom_id"`
	Day         string `gorm:"size:10;not null" json:"day"`
	TimeSlot    string `gorm:"size:20;not null" json:"time_slot"`
	ModuleName  string `gorm:"size:255;not null" json:"module_name"`
	TeacherID   uint   `gorm:"index;not null" json:"teacher_id"`
}

func (TimetableEntry) TableName() string {
	return "timetable_entries"
}

type Notification struct {
	BaseModel
	Title   string `gorm:"size:255;not null" json:"title"`
	Message string `gorm:"type:text" json:"message"`
}

func (Notification) TableName() string {
	return "notifications"
}
