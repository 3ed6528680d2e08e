package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ResultService struct {
	db *gorm.DB
}

func NewResultService(db *gorm.DB) *ResultService {
	return &ResultService{db: db}
}

// GetDetailedResults returns every response of the survey owning code, with one answer
// per question in display order. Unknown and malformed codes both yield ErrNotFound.
func (v *ResultService) GetDetailedResults(ctx context.Context, code string) (models.DetailedResults, error) {
	code = strings.TrimSpace(code)
	if !IsResultAccessCode(code) {
		return models.DetailedResults{}, ErrNotFound
	}

	var out models.DetailedResults
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var survey models.Survey
		if err := tx.Where("result_access_code = ?", code).First(&survey).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("unable to load survey: %w", err)
		}

		var questions []models.Question
		if err := tx.Where("survey_id = ?", survey.ID).
			Order("display_order ASC, id ASC").
			Preload("Options", orderByDisplay).
			Find(&questions).Error; err != nil {
			return fmt.Errorf("unable to load questions: %w", err)
		}

		var responses []models.Response
		if err := tx.Where("survey_id = ?", survey.ID).
			Order("submitted_at ASC, id ASC").
			Find(&responses).Error; err != nil {
			return fmt.Errorf("unable to load responses: %w", err)
		}

		var rows []models.AnswerRow
		if err := tx.Model(&models.Answer{}).
			Select("answers.response_id, answers.question_id, " +
				"questions.question_text, questions.question_type, " +
				"answers.answer_text, answers.selected_option_id, " +
				"options.option_text AS selected_option_text").
			Joins("JOIN responses ON responses.id = answers.response_id").
			Joins("JOIN questions ON questions.id = answers.question_id").
			Joins("LEFT JOIN options ON options.id = answers.selected_option_id").
			Where("responses.survey_id = ?", survey.ID).
			Order("questions.display_order ASC, questions.id ASC, answers.id ASC").
			Scan(&rows).Error; err != nil {
			return fmt.Errorf("unable to load answers: %w", err)
		}

		out = models.DetailedResults{
			SurveyTitle:     survey.Title,
			SurveyStructure: NewSurveyStructure(questions),
			Responses:       AssembleResponses(questions, responses, rows),
		}
		return nil
	}, &sql.TxOptions{ReadOnly: true})

	return out, err
}

func NewSurveyStructure(questions []models.Question) models.SurveyStructure {
	return models.SurveyStructure{
		Questions: lo.Map(questions, func(item models.Question, _ int) models.StructureQuestion {
			return models.StructureQuestion{
				ID:         item.ID,
				Text:       item.QuestionText,
				Type:       item.QuestionType,
				IsRequired: item.IsRequired,
				Options: lo.Map(item.Options, func(option models.Option, _ int) string {
					return option.OptionText
				}),
			}
		}),
	}
}

// AssembleResponses reshapes flat answer rows into one entry per response, each holding
// exactly one answer per question of questions, in that order. Rows for questions outside
// questions are ignored. Multiple choice selections keep their row order, counted once per
// option.
func AssembleResponses(questions []models.Question, responses []models.Response, rows []models.AnswerRow) []models.ResponseResult {
	byResponse := lo.GroupBy(rows, func(item models.AnswerRow) uint {
		return item.ResponseID
	})

	out := make([]models.ResponseResult, 0, len(responses))
	for _, response := range responses {
		byQuestion := lo.GroupBy(byResponse[response.ID], func(item models.AnswerRow) uint {
			return item.QuestionID
		})

		answers := make([]models.AnswerResult, 0, len(questions))
		for _, question := range questions {
			answers = append(answers, assembleAnswer(question, byQuestion[question.ID]))
		}

		out = append(out, models.ResponseResult{
			ResponseID:  response.ID,
			SubmittedAt: response.SubmittedAt,
			Answers:     answers,
		})
	}
	return out
}

func assembleAnswer(question models.Question, rows []models.AnswerRow) models.AnswerResult {
	values := make([]string, 0, len(rows))
	seen := make(map[uint]bool)
	for _, row := range rows {
		if question.IsChoice() {
			if row.SelectedOptionID == nil || row.SelectedOptionText == nil || seen[*row.SelectedOptionID] {
				continue
			}
			seen[*row.SelectedOptionID] = true
			values = append(values, *row.SelectedOptionText)
		} else if row.AnswerText != nil && strings.TrimSpace(*row.AnswerText) != "" {
			values = append(values, *row.AnswerText)
		}
	}
	if question.QuestionType != models.QuestionTypeMultipleChoice && len(values) > 1 {
		values = values[:1]
	}

	result := models.AnswerResult{
		QuestionID:   question.ID,
		QuestionText: question.QuestionText,
		QuestionType: question.QuestionType,
		Answered:     len(values) > 0,
		Values:       values,
		AnswerText:   strings.Join(values, ", "),
	}
	if !result.Answered {
		result.AnswerText = models.NotAnsweredText
	}
	return result
}
