package api

import (
	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
)

type Controller struct {
	surveys   *services.SurveyService
	responses *services.ResponseService
	results   *services.ResultService
}

func NewController(
	surveys *services.SurveyService,
	responses *services.ResponseService,
	results *services.ResultService,
) *Controller {
	return &Controller{surveys: surveys, responses: responses, results: results}
}

func (v *Controller) MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		api.Get("/", getWelcome)

		surveys := api.Group("/surveys").Name("Surveys API")
		{
			surveys.Post("/create", v.createSurvey)
			surveys.Get("/fill/:shareUuid", v.getSurveyForFilling)
			surveys.Post("/results-detailed", v.getDetailedResults)
			surveys.Post("/:surveyId/submit", v.submitResponse)
		}
	}
}

func getWelcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Welcome to the anonymous survey API."})
}
