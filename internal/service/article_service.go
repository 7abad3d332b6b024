package service

import (
	"context"

	"pressbox/internal/models"
	"pressbox/internal/repository"

	"github.com/google/uuid"
)

// ArticleService serves article reads. Listings are uncached; article
// traffic is read-mostly and cheap next to comment listings.
type ArticleService struct {
	articleRepo repository.ArticleRepository
}

// NewArticleService returns a new ArticleService.
func NewArticleService(articleRepo repository.ArticleRepository) *ArticleService {
	return &ArticleService{articleRepo: articleRepo}
}

// Get returns a single article by id.
func (s *ArticleService) Get(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	article, err := s.articleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.NewNotFoundError("Article", id)
	}
	return article, nil
}

// ArticlePage is one page of articles with its meta.
type ArticlePage struct {
	Items []*models.Article `json:"items"`
	Meta  PageMeta          `json:"meta"`
}

// List returns one page of articles, newest first.
func (s *ArticleService) List(ctx context.Context, params ListParams) (*ArticlePage, error) {
	params = params.normalized()

	articles, total, err := s.articleRepo.ListPage(ctx,
		repository.ListFilter{Search: params.Search, From: params.From, To: params.To},
		params.Page, params.PerPage)
	if err != nil {
		return nil, err
	}
	if articles == nil {
		articles = []*models.Article{}
	}
	return &ArticlePage{
		Items: articles,
		Meta:  NewPageMeta(params.Page, params.PerPage, total),
	}, nil
}
