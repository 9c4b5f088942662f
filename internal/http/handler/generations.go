package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"letterapi/internal/service"
)

// GetGeneration godoc
// @Summary Get a generation record
// @Tags generations
// @Produce json
// @Param id path string true "Generation ID"
// @Success 200 {object} model.GenerationRecord
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /generations/{id} [get]
func GetGeneration(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		rec, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrRecordsDisabled) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "generation not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(rec)
	}
}

// ListGenerations godoc
// @Summary List generation records
// @Tags generations
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.GenerationListResult
// @Failure 400 {object} errorPayload
// @Router /generations [get]
func ListGenerations(svc service.GenerationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), limit, offset)
		if err != nil {
			if errors.Is(err, service.ErrRecordsDisabled) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "generation records are disabled")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
