package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreateAttempts bounds how many times a survey insert is retried after
// hitting a unique index.
const CreateAttempts = 3

const formCacheTag = "survey-form"

type OptionInput struct {
	Text string `json:"option_text"`
}

type QuestionInput struct {
	Text       string        `json:"question_text"`
	Type       string        `json:"question_type"`
	IsRequired bool          `json:"is_required"`
	Options    []OptionInput `json:"options"`
}

type SurveyInput struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Questions   []QuestionInput `json:"questions"`
}

func (v SurveyInput) Validate() error {
	if strings.TrimSpace(v.Title) == "" {
		return newValidationError("survey title is required")
	}
	if len(v.Questions) == 0 {
		return newValidationError("survey must contain at least one question")
	}
	for idx, question := range v.Questions {
		if strings.TrimSpace(question.Text) == "" {
			return newValidationError("question %d has no text", idx+1)
		}
		if !models.IsQuestionType(question.Type) {
			return newValidationError("question %d (%q) has unsupported type %q", idx+1, question.Text, question.Type)
		}
		if !models.IsChoiceType(question.Type) {
			continue
		}
		if len(question.Options) == 0 {
			return newValidationError("question %d (%q) is a choice question but has no options", idx+1, question.Text)
		}
		for optionIdx, option := range question.Options {
			if strings.TrimSpace(option.Text) == "" {
				return newValidationError("option %d of question %d (%q) has no text", optionIdx+1, idx+1, question.Text)
			}
		}
	}
	return nil
}

type CreatedSurvey struct {
	SurveyID         uint   `json:"survey_id"`
	ShareToken       string `json:"share_token"`
	ShareLink        string `json:"share_link"`
	ResultAccessCode string `json:"result_access_code"`
}

type SurveyService struct {
	db    *gorm.DB
	codes *CodeGenerator

	newToken       func() string
	detectLanguage func(text string) string
	shareBaseURL   string

	forms   *marshaler.Marshaler
	formTTL time.Duration
}

func NewSurveyService(db *gorm.DB, codes *CodeGenerator) *SurveyService {
	return &SurveyService{
		db:       db,
		codes:    codes,
		newToken: uuid.NewString,
	}
}

func (v *SurveyService) SetTokenGenerator(fn func() string) {
	v.newToken = fn
}

func (v *SurveyService) SetLanguageDetector(fn func(text string) string) {
	v.detectLanguage = fn
}

// SetShareBaseURL sets the prefix the share token is appended to when building share links.
func (v *SurveyService) SetShareBaseURL(url string) {
	v.shareBaseURL = url
}

// SetFormCache enables read-through caching of survey forms. A nil store disables it.
func (v *SurveyService) SetFormCache(source store.StoreInterface, ttl time.Duration) {
	if source == nil {
		v.forms = nil
		return
	}
	v.forms = marshaler.New(cache.New[any](source))
	v.formTTL = ttl
}

// CreateSurvey stores the survey with all of its questions and options, or nothing at all.
func (v *SurveyService) CreateSurvey(ctx context.Context, in SurveyInput) (CreatedSurvey, error) {
	if err := in.Validate(); err != nil {
		return CreatedSurvey{}, err
	}

	var language string
	if v.detectLanguage != nil {
		language = v.detectLanguage(strings.TrimSpace(in.Title + "\n" + in.Description))
	}

	var survey models.Survey
	var err error
	for attempt := 1; attempt <= CreateAttempts; attempt++ {
		survey, err = v.createOnce(ctx, in, language)
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		log.Warn().Int("attempt", attempt).Msg("Survey identifiers collided on insert, retrying...")
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return CreatedSurvey{}, ErrCodeCollision
	} else if err != nil {
		return CreatedSurvey{}, err
	}

	log.Info().
		Uint("survey", survey.ID).
		Int("questions", len(in.Questions)).
		Str("language", survey.Language).
		Msg("A survey has been created.")

	return CreatedSurvey{
		SurveyID:         survey.ID,
		ShareToken:       survey.ShareUUID,
		ShareLink:        v.shareBaseURL + survey.ShareUUID,
		ResultAccessCode: survey.ResultAccessCode,
	}, nil
}

func (v *SurveyService) createOnce(ctx context.Context, in SurveyInput, language string) (models.Survey, error) {
	var survey models.Survey
	err := v.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		code, err := v.codes.Generate(tx)
		if err != nil {
			return err
		}

		survey = models.Survey{
			Title:            strings.TrimSpace(in.Title),
			ShareUUID:        v.newToken(),
			ResultAccessCode: code,
			Language:         language,
		}
		if description := strings.TrimSpace(in.Description); description != "" {
			survey.Description = &description
		}
		if err := tx.Omit(clause.Associations).Create(&survey).Error; err != nil {
			return fmt.Errorf("unable to insert survey: %w", err)
		}

		for idx, item := range in.Questions {
			question := models.Question{
				SurveyID:     survey.ID,
				QuestionText: strings.TrimSpace(item.Text),
				QuestionType: item.Type,
				IsRequired:   item.IsRequired,
				DisplayOrder: idx,
			}
			if err := tx.Omit(clause.Associations).Create(&question).Error; err != nil {
				return fmt.Errorf("unable to insert question %d: %w", idx+1, err)
			}
			if !question.IsChoice() {
				continue
			}

			for optionIdx, entry := range item.Options {
				text := strings.TrimSpace(entry.Text)
				if text == "" {
					return newValidationError("option %d of question %d (%q) has no text", optionIdx+1, idx+1, item.Text)
				}
				option := models.Option{
					QuestionID:   question.ID,
					OptionText:   text,
					DisplayOrder: optionIdx,
				}
				if err := tx.Create(&option).Error; err != nil {
					return fmt.Errorf("unable to insert option %d of question %d: %w", optionIdx+1, idx+1, err)
				}
			}
		}

		return nil
	})
	return survey, err
}

func orderByDisplay(tx *gorm.DB) *gorm.DB {
	return tx.Order("display_order ASC, id ASC")
}

// GetSurveyForFilling loads the form a respondent fills in, looked up by share token.
func (v *SurveyService) GetSurveyForFilling(ctx context.Context, shareToken string) (models.SurveyForm, error) {
	shareToken = strings.TrimSpace(shareToken)
	if shareToken == "" {
		return models.SurveyForm{}, ErrNotFound
	}

	cacheKey := fmt.Sprintf("%s#%s", formCacheTag, shareToken)
	if v.forms != nil {
		if val, err := v.forms.Get(ctx, cacheKey, new(models.SurveyForm)); err == nil {
			if form, ok := val.(*models.SurveyForm); ok {
				return *form, nil
			}
		}
	}

	var survey models.Survey
	if err := v.db.WithContext(ctx).
		Where("share_uuid = ?", shareToken).
		Preload("Questions", orderByDisplay).
		Preload("Questions.Options", orderByDisplay).
		First(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.SurveyForm{}, ErrNotFound
		}
		return models.SurveyForm{}, fmt.Errorf("unable to load survey: %w", err)
	}

	form := models.NewSurveyForm(survey)
	if v.forms != nil {
		if err := v.forms.Set(
			ctx,
			cacheKey,
			form,
			store.WithExpiration(v.formTTL),
			store.WithTags([]string{formCacheTag, fmt.Sprintf("survey#%d", survey.ID)}),
		); err != nil {
			log.Warn().Err(err).Uint("survey", survey.ID).Msg("Unable to cache survey form...")
		}
	}

	return form, nil
}
