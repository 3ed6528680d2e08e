package api

import (
	"errors"

	"github.com/Z-Wei-1117/survey-app/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// toHttpError maps service errors onto status codes. Not-found errors always use the
// given generic message so callers cannot probe which part of the lookup failed.
func toHttpError(err error, notFound string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Message)
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, notFound)
	case errors.Is(err, services.ErrCodeSpaceExhausted):
		return fiber.NewError(fiber.StatusServiceUnavailable, "unable to allocate a result access code right now, please try again")
	case errors.Is(err, services.ErrCodeCollision):
		return fiber.NewError(fiber.StatusConflict, "survey identifiers collided, please try again")
	default:
		log.Error().Err(err).Msg("An error occurred when accessing the survey store...")
		return fiber.NewError(fiber.StatusInternalServerError, "internal server error")
	}
}
