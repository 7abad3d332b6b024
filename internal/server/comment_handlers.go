package server

import (
	"pressbox/internal/models"
	"pressbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CreateComment handles POST /api/articles/:id/comments.
// The comment is accepted for asynchronous moderation: it is persisted in
// pending state and queued, and the response is 202 with the comment id.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	articleID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	userID := c.Locals("userID").(uuid.UUID)

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusUnprocessableEntity,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.Submit(c.UserContext(), service.SubmitCommentInput{
		ArticleID: articleID,
		UserID:    userID,
		Content:   req.Content,
	})
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"comment_id": comment.ID,
		"status":     comment.Status,
		"message":    "Comment queued for moderation",
	})
}

// GetComments handles GET /api/articles/:id/comments.
// Only published comments are returned, newest first, optionally filtered by
// search term and created_at bounds.
func (s *Server) GetComments(c *fiber.Ctx) error {
	articleID, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}
	params, err := parseListParams(c)
	if err != nil {
		return nil
	}

	page, err := s.commentService.List(c.UserContext(), articleID, params)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(page)
}
