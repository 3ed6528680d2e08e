package models

import "time"

const (
	QuestionTypeTextInput      = "text_input"
	QuestionTypeSingleChoice   = "single_choice"
	QuestionTypeMultipleChoice = "multiple_choice"
)

// IsQuestionType reports whether kind names one of the supported question types.
func IsQuestionType(kind string) bool {
	switch kind {
	case QuestionTypeTextInput, QuestionTypeSingleChoice, QuestionTypeMultipleChoice:
		return true
	default:
		return false
	}
}

// IsChoiceType reports whether answers of kind reference options instead of free text.
func IsChoiceType(kind string) bool {
	return kind == QuestionTypeSingleChoice || kind == QuestionTypeMultipleChoice
}

type BaseModel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
}

type Survey struct {
	BaseModel

	Title            string     `json:"title" gorm:"size:255;not null"`
	Description      *string    `json:"description"`
	ShareUUID        string     `json:"share_uuid" gorm:"column:share_uuid;size:36;uniqueIndex;not null"`
	ResultAccessCode string     `json:"-" gorm:"size:9;uniqueIndex;not null"`
	Language         string     `json:"language" gorm:"size:8"`
	Questions        []Question `json:"questions" gorm:"constraint:OnDelete:CASCADE"`
}

type Question struct {
	BaseModel

	SurveyID     uint     `json:"survey_id" gorm:"index;not null"`
	QuestionText string   `json:"question_text" gorm:"not null"`
	QuestionType string   `json:"question_type" gorm:"size:32;not null;check:question_type IN ('text_input', 'single_choice', 'multiple_choice')"`
	IsRequired   bool     `json:"is_required" gorm:"not null;default:false"`
	DisplayOrder int      `json:"display_order" gorm:"not null"`
	Options      []Option `json:"options" gorm:"constraint:OnDelete:CASCADE"`
}

func (v Question) IsChoice() bool {
	return IsChoiceType(v.QuestionType)
}

type Option struct {
	BaseModel

	QuestionID   uint   `json:"question_id" gorm:"index;not null"`
	OptionText   string `json:"option_text" gorm:"not null"`
	DisplayOrder int    `json:"display_order" gorm:"not null"`
}

type Response struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SurveyID    uint      `json:"survey_id" gorm:"index;not null"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`
	Answers     []Answer  `json:"answers" gorm:"constraint:OnDelete:CASCADE"`

	Survey *Survey `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// Answer is one raw answer row. Text answers carry AnswerText, choice answers carry
// SelectedOptionID; a multi-select question produces one row per selected option.
type Answer struct {
	BaseModel

	ResponseID       uint    `json:"response_id" gorm:"index;not null"`
	QuestionID       uint    `json:"question_id" gorm:"index;not null"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`

	Question       *Question `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	SelectedOption *Option   `json:"-" gorm:"foreignKey:SelectedOptionID;constraint:OnDelete:SET NULL"`
}
