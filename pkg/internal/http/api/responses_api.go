package api

import (
	"github.com/Z-Wei-1117/survey-app/pkg/internal/http/exts"
	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) submitResponse(c *fiber.Ctx) error {
	surveyId, err := c.ParamsInt("surveyId")
	if err != nil || surveyId <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "a valid survey id is required")
	}

	var data struct {
		Answers []services.AnswerInput `json:"answers"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}
	if data.Answers == nil {
		return fiber.NewError(fiber.StatusBadRequest, "answers must be an array")
	}

	responseId, err := v.responses.SubmitResponse(c.UserContext(), uint(surveyId), data.Answers)
	if err != nil {
		return toHttpError(err, "survey or question not found")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "response submitted",
		"response_id": responseId,
	})
}
