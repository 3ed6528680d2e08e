package models

import "time"

// NotAnsweredText is shown in place of an answer the respondent skipped.
const NotAnsweredText = "(not answered)"

// SurveyForm is the respondent-facing view of a survey. It never exposes the
// result access code.
type SurveyForm struct {
	ID          uint           `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Language    string         `json:"language"`
	Questions   []FormQuestion `json:"questions"`
}

type FormQuestion struct {
	ID         uint         `json:"id"`
	Text       string       `json:"text"`
	Type       string       `json:"type"`
	IsRequired bool         `json:"is_required"`
	Options    []FormOption `json:"options,omitempty"`
}

type FormOption struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// NewSurveyForm expects survey questions and options already in display order.
func NewSurveyForm(survey Survey) SurveyForm {
	form := SurveyForm{
		ID:          survey.ID,
		Title:       survey.Title,
		Description: survey.Description,
		Language:    survey.Language,
		Questions:   make([]FormQuestion, 0, len(survey.Questions)),
	}
	for _, question := range survey.Questions {
		item := FormQuestion{
			ID:         question.ID,
			Text:       question.QuestionText,
			Type:       question.QuestionType,
			IsRequired: question.IsRequired,
		}
		if question.IsChoice() {
			item.Options = make([]FormOption, 0, len(question.Options))
			for _, option := range question.Options {
				item.Options = append(item.Options, FormOption{ID: option.ID, Text: option.OptionText})
			}
		}
		form.Questions = append(form.Questions, item)
	}
	return form
}

// AnswerRow is an answer joined with its question and, for choice answers, the
// selected option.
type AnswerRow struct {
	ResponseID         uint
	QuestionID         uint
	QuestionText       string
	QuestionType       string
	AnswerText         *string
	SelectedOptionID   *uint
	SelectedOptionText *string
}

type DetailedResults struct {
	SurveyTitle     string           `json:"survey_title"`
	SurveyStructure SurveyStructure  `json:"survey_structure"`
	Responses       []ResponseResult `json:"responses"`
}

type SurveyStructure struct {
	Questions []StructureQuestion `json:"questions"`
}

type StructureQuestion struct {
	ID         uint     `json:"id"`
	Text       string   `json:"text"`
	Type       string   `json:"type"`
	IsRequired bool     `json:"is_required"`
	Options    []string `json:"options"`
}

type ResponseResult struct {
	ResponseID  uint           `json:"response_id"`
	SubmittedAt time.Time      `json:"submitted_at"`
	Answers     []AnswerResult `json:"answers"`
}

type AnswerResult struct {
	QuestionID   uint     `json:"question_id"`
	QuestionText string   `json:"question_text"`
	QuestionType string   `json:"question_type"`
	Answered     bool     `json:"answered"`
	Values       []string `json:"values"`
	AnswerText   string   `json:"answer_text"`
}
