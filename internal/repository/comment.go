// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pressbox/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListFilter holds the optional predicates of a comment or article listing.
type ListFilter struct {
	Search string
	From   *time.Time
	To     *time.Time
}

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	// GetByID returns (nil, nil) when no comment exists with the given id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	// UpdateStatusFrom atomically moves a comment from expected to next
	// status. It reports whether this call performed the transition; false
	// with a nil error means another writer already resolved the comment.
	UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next models.CommentStatus) (bool, error)
	// ListPage returns one page of comments with the given status under an
	// article, newest first, along with the total matching count.
	ListPage(ctx context.Context, articleID uuid.UUID, status models.CommentStatus, filter ListFilter, page, perPage int) ([]*models.Comment, int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.WithContext(ctx).First(&comment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next models.CommentStatus) (bool, error) {
	// The transition table is enforced here, at the persistence boundary.
	if !expected.CanTransitionTo(next) {
		return false, fmt.Errorf("invalid status transition %s -> %s", expected, next)
	}

	res := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *commentRepository) ListPage(
	ctx context.Context,
	articleID uuid.UUID,
	status models.CommentStatus,
	filter ListFilter,
	page, perPage int,
) ([]*models.Comment, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("article_id = ? AND status = ?", articleID, status)

	if filter.Search != "" {
		q = q.Where("content ILIKE ?", "%"+filter.Search+"%")
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

	var comments []*models.Comment
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}
