package repository

import (
	"context"
	"errors"

	"pressbox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticleRepository defines interface for article read operations
type ArticleRepository interface {
	// GetByID returns (nil, nil) when no article exists with the given id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	// ListPage returns one page of articles, newest first, along with the
	// total matching count. Search matches title or body.
	ListPage(ctx context.Context, filter ListFilter, page, perPage int) ([]*models.Article, int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).First(&article, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &article, nil
}

func (r *articleRepository) ListPage(
	ctx context.Context,
	filter ListFilter,
	page, perPage int,
) ([]*models.Article, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Article{})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR body ILIKE ?", pattern, pattern)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var articles []*models.Article
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}
