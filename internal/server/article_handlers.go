package server

import (
	"pressbox/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetArticles handles GET /api/articles
func (s *Server) GetArticles(c *fiber.Ctx) error {
	params, err := parseListParams(c)
	if err != nil {
		return nil
	}

	page, err := s.articleService.List(c.UserContext(), params)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(page)
}

// GetArticle handles GET /api/articles/:id
func (s *Server) GetArticle(c *fiber.Ctx) error {
	id, err := parseUUID(c, "id")
	if err != nil {
		return nil
	}

	article, err := s.articleService.Get(c.UserContext(), id)
	if err != nil {
		return models.RespondWithError(c, statusForError(err), err)
	}
	return c.JSON(article)
}
