package server

import (
	"errors"
	"time"

	"pressbox/internal/models"
	"pressbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseUUID extracts a route parameter by name as a UUID. On failure it
// writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func parseUUID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(param))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return uuid.Nil, errResponseWritten
	}
	return id, nil
}

// parseListParams extracts pagination and filter query parameters
// (page, per_page, search, from, to). Date bounds are RFC 3339 or
// YYYY-MM-DD; an unparseable bound writes a 400 and returns
// errResponseWritten.
func parseListParams(c *fiber.Ctx) (service.ListParams, error) {
	params := service.ListParams{
		Page:    c.QueryInt("page", 1),
		PerPage: c.QueryInt("per_page", 10),
		Search:  c.Query("search"),
	}

	from, err := parseDateQuery(c, "from")
	if err != nil {
		return params, err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return params, err
	}
	params.From = from
	params.To = to
	return params, nil
}

func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	_ = models.RespondWithError(c, fiber.StatusBadRequest,
		models.NewValidationError("Invalid "+name+" date"))
	return nil, errResponseWritten
}

// statusForError maps application errors to HTTP status codes.
func statusForError(err error) int {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return fiber.StatusNotFound
		case "VALIDATION_ERROR":
			return fiber.StatusUnprocessableEntity
		case "UNAUTHORIZED":
			return fiber.StatusUnauthorized
		}
	}
	return fiber.StatusInternalServerError
}
