package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"

	"marketspace/internal/backend"
	"marketspace/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// respondError maps a service failure onto the screen-level error policy:
// a recognized backend application error surfaces its message verbatim with
// its status, everything else becomes the action's generic fallback message.
// Nothing propagates further; there is no global error handler.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Status).JSON(fiber.Map{
			"message": apiErr.Message,
		})
	}

	log.Printf("Error handling %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"message": fallback,
	})
}

// validationFieldErrors flattens validator failures into a field -> message
// map, the shape every form endpoint returns on a 400.
func validationFieldErrors(err error) map[string]string {
	errorMessages := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return errorMessages
}

// attachmentFromFileHeader reads an uploaded file into a pending image
// attachment, carrying its reported size for the policy check.
func attachmentFromFileHeader(fh *multipart.FileHeader) (*models.ImageAttachment, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file %s: %w", fh.Filename, err)
	}

	return &models.ImageAttachment{
		New:         true,
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Data:        data,
	}, nil
}
