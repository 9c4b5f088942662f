package handler

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"letterapi/internal/apperr"
	"letterapi/internal/http/middleware"
	"letterapi/internal/model"
	"letterapi/internal/service"
)

// GenerationIDHeader carries the id of the generation record on success.
const GenerationIDHeader = "X-Generation-ID"

// GenerateLetter godoc
// @Summary Generate a legal letter
// @Description Fills the template selected by language and doc_type, optionally converts it to PDF and emails it, and returns the file.
// @Tags letters
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce application/pdf
// @Param request body object true "Generation request"
// @Success 200 {file} file
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /generate [post]
func GenerateLetter(svc service.GenerationService, defs model.RequestDefaults) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if err := validateRequest(body); err != nil {
			return writePipelineError(c, err)
		}

		var payload map[string]any
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return writePipelineError(c, apperr.InvalidRequest("request body must be a JSON object", err))
		}

		req, err := model.NewGenerationRequest(middleware.RequestIDFromCtx(c), payload, defs)
		if err != nil {
			return writePipelineError(c, apperr.InvalidRequest(err.Error(), nil))
		}

		res, err := svc.Generate(c.UserContext(), req)
		if err != nil {
			return writePipelineError(c, err)
		}

		art := res.Artifact
		c.Set(GenerationIDHeader, res.ID)
		c.Set(fiber.HeaderContentType, art.ContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, art.Filename))
		return c.Status(fiber.StatusOK).Send(art.Data)
	}
}
