package model

import "time"

// SectionSubmission 某个学生对某个小节的一次提交
// swagger:model SectionSubmission
type SectionSubmission struct {
	UUIDRecord
	AssessmentID  uint               `gorm:"index;not null" json:"assessment_id"`
	SectionID     uint               `gorm:"not null;uniqueIndex:idx_submission_section_student" json:"section_id"`
	StudentID     uint               `gorm:"not null;uniqueIndex:idx_submission_section_student;index" json:"student_id"`
	TotalAwarded  int                `gorm:"default:0" json:"total_awarded"`
	AutoSubmitted bool               `gorm:"default:false" json:"auto_submitted"`
	SubmittedAt   time.Time          `gorm:"not null" json:"submitted_at"`
	Student       *User              `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Answers       []AssessmentAnswer `gorm:"foreignKey:SubmissionID" json:"answers,omitempty"`
}

func (SectionSubmission) TableName() string {
	return "section_submissions"
}

// swagger:model AssessmentAnswer
type AssessmentAnswer struct {
	BaseModel
	SubmissionID     string     `gorm:"index;type:varchar(36);not null" json:"submission_id"`
	AssessmentID     uint       `gorm:"index;not null" json:"assessment_id"`
	SectionID        uint       `gorm:"index;not null" json:"section_id"`
	QuestionID       uint       `gorm:"not null;uniqueIndex:idx_answer_student_question" json:"question_id"`
	StudentID        uint       `gorm:"not null;uniqueIndex:idx_answer_student_question" json:"student_id"`
	AnswerText       *string    `gorm:"type:text" json:"answer_text"`
	SelectedOptionID *uint      `json:"selected_option_id"`
	AwardedMarks     int        `gorm:"default:0" json:"awarded_marks"`
	SubmittedAt      time.Time  `gorm:"not null" json:"submitted_at"`
	GradedBy         *uint      `json:"graded_by,omitempty"`
	GradedAt         *time.Time `json:"graded_at,omitempty"`
}

func (AssessmentAnswer) TableName() string {
	return "assessment_answers"
}
