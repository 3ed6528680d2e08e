package api

import (
	"github.com/Z-Wei-1117/survey-app/pkg/internal/http/exts"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type optionRequest struct {
	OptionText string `json:"option_text" validate:"max=1024"`
}

type questionRequest struct {
	QuestionText string          `json:"question_text" validate:"max=1024"`
	QuestionType string          `json:"question_type" validate:"max=32"`
	IsRequired   bool            `json:"is_required"`
	Options      []optionRequest `json:"options" validate:"max=256,dive"`
}

func (v *Controller) createSurvey(c *fiber.Ctx) error {
	var data struct {
		Title       string            `json:"title" validate:"max=255"`
		Description string            `json:"description" validate:"max=4096"`
		Questions   []questionRequest `json:"questions" validate:"max=512,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	in := services.SurveyInput{
		Title:       data.Title,
		Description: data.Description,
		Questions: lo.Map(data.Questions, func(item questionRequest, _ int) services.QuestionInput {
			return services.QuestionInput{
				Text:       item.QuestionText,
				Type:       item.QuestionType,
				IsRequired: item.IsRequired,
				Options: lo.Map(item.Options, func(option optionRequest, _ int) services.OptionInput {
					return services.OptionInput{Text: option.OptionText}
				}),
			}
		}),
	}

	created, err := v.surveys.CreateSurvey(c.UserContext(), in)
	if err != nil {
		return toHttpError(err, "survey not found")
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (v *Controller) getSurveyForFilling(c *fiber.Ctx) error {
	form, err := v.surveys.GetSurveyForFilling(c.UserContext(), c.Params("shareUuid"))
	if err != nil {
		return toHttpError(err, "survey not found or link is invalid")
	}

	return c.JSON(form)
}
