package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerInput struct {
	QuestionID       uint    `json:"question_id"`
	SelectedOptionID *uint   `json:"selected_option_id"`
	AnswerText       *string `json:"answer_text"`
}

type ResponseService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewResponseService(db *gorm.DB) *ResponseService {
	return &ResponseService{db: db, now: time.Now}
}

// SubmitResponse records one anonymous response and its answers in a single transaction.
// Nothing is written when the survey or any referenced question is unknown.
func (v *ResponseService) SubmitResponse(ctx context.Context, surveyID uint, answers []AnswerInput) (uint, error) {
	var response models.Response
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var survey models.Survey
		if err := tx.Where("id = ?", surveyID).
			Preload("Questions", orderByDisplay).
			Preload("Questions.Options").
			First(&survey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("unable to load survey: %w", err)
		}

		rows, err := buildAnswers(survey, answers)
		if err != nil {
			return err
		}

		response = models.Response{SurveyID: survey.ID, SubmittedAt: v.now()}
		if err := tx.Omit(clause.Associations).Create(&response).Error; err != nil {
			return fmt.Errorf("unable to insert response: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		for idx := range rows {
			rows[idx].ResponseID = response.ID
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return fmt.Errorf("unable to insert answers: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	log.Info().Uint("survey", surveyID).Uint("response", response.ID).Msg("A survey response has been submitted.")
	return response.ID, nil
}

// buildAnswers checks every answer against the survey and returns the rows to store,
// in input order. Blank text answers and repeated option selections are dropped.
func buildAnswers(survey models.Survey, answers []AnswerInput) ([]models.Answer, error) {
	questions := lo.KeyBy(survey.Questions, func(item models.Question) uint {
		return item.ID
	})

	answered := make(map[uint]int)
	selected := make(map[uint]bool)
	rows := make([]models.Answer, 0, len(answers))
	for _, answer := range answers {
		question, ok := questions[answer.QuestionID]
		if !ok {
			return nil, fmt.Errorf("question %d of survey %d: %w", answer.QuestionID, survey.ID, ErrNotFound)
		}

		row := models.Answer{QuestionID: question.ID}
		if question.IsChoice() {
			if answer.SelectedOptionID == nil {
				return nil, newValidationError("question %q expects a selected option", question.QuestionText)
			}
			optionID := *answer.SelectedOptionID
			if !lo.ContainsBy(question.Options, func(item models.Option) bool { return item.ID == optionID }) {
				return nil, newValidationError("option %d does not belong to question %q", optionID, question.QuestionText)
			}
			if selected[optionID] {
				continue
			}
			selected[optionID] = true
			row.SelectedOptionID = &optionID
		} else {
			if answer.SelectedOptionID != nil {
				return nil, newValidationError("question %q expects a text answer", question.QuestionText)
			}
			if answer.AnswerText == nil {
				return nil, newValidationError("question %q is missing answer_text", question.QuestionText)
			}
			text := strings.TrimSpace(*answer.AnswerText)
			if text == "" {
				continue
			}
			row.AnswerText = &text
		}

		answered[question.ID]++
		if answered[question.ID] > 1 && question.QuestionType != models.QuestionTypeMultipleChoice {
			return nil, newValidationError("question %q accepts a single answer", question.QuestionText)
		}
		rows = append(rows, row)
	}

	for idx, question := range survey.Questions {
		if question.IsRequired && answered[question.ID] == 0 {
			return nil, newValidationError("question %d (%q) is required", idx+1, question.QuestionText)
		}
	}

	return rows, nil
}
