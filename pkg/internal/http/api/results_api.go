package api

import (
	"github.com/Z-Wei-1117/survey-app/pkg/internal/http/exts"
	"github.com/gofiber/fiber/v2"
)

func (v *Controller) getDetailedResults(c *fiber.Ctx) error {
	var data struct {
		ResultAccessCode string `json:"result_access_code" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "result access code is required")
	}

	results, err := v.results.GetDetailedResults(c.UserContext(), data.ResultAccessCode)
	if err != nil {
		return toHttpError(err, "no survey matches this result access code")
	}

	return c.JSON(results)
}
