package model

// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	BaseModel
	SectionID    uint               `gorm:"index;not null" json:"section_id"`
	QuestionText string             `gorm:"type:text;not null" json:"question_text"`
	QType        string             `gorm:"column:q_type;size:20;not null" json:"q_type"` // mcq 或 text
	Marks        int                `gorm:"default:0" json:"marks"`
	Options      []AssessmentOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (AssessmentQuestion) TableName() string {
	return "assessment_questions"
}

func (q *AssessmentQuestion) IsMCQ() bool {
	return q.QType == QuestionTypeMCQ
}

// swagger:model AssessmentOption
type AssessmentOption struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	OptionText string `gorm:"type:text;not null" json:"option_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
}

func (AssessmentOption) TableName() string {
	return "assessment_options"
}
