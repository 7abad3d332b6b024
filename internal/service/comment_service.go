package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"pressbox/internal/cache"
	"pressbox/internal/models"
	"pressbox/internal/moderation"
	"pressbox/internal/queue"
	"pressbox/internal/repository"

	"github.com/google/uuid"
)

const maxCommentLen = 10000

// CommentService owns the comment write path (submit + enqueue for
// moderation) and the cached read path (paginated listings of published
// comments).
type CommentService struct {
	commentRepo repository.CommentRepository
	articleRepo repository.ArticleRepository
	queue       queue.Queue
	cache       cache.TaggedCache
	policy      *moderation.Policy
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	articleRepo repository.ArticleRepository,
	q queue.Queue,
	c cache.TaggedCache,
	policy *moderation.Policy,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
		queue:       q,
		cache:       c,
		policy:      policy,
	}
}

// SubmitCommentInput is the payload for Submit.
type SubmitCommentInput struct {
	ArticleID uuid.UUID
	UserID    uuid.UUID
	Content   string
}

// Submit persists a new comment in pending state and enqueues a moderation
// unit of work for it. The unit is enqueued only after the comment is
// durably persisted. If enqueueing fails afterwards the comment stays
// pending until an external reconciliation sweep picks it up; the submission
// itself still succeeds.
func (s *CommentService) Submit(ctx context.Context, in SubmitCommentInput) (*models.Comment, error) {
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	article, err := s.articleRepo.GetByID(ctx, in.ArticleID)
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.NewNotFoundError("Article", in.ArticleID)
	}

	comment := &models.Comment{
		ArticleID: in.ArticleID,
		UserID:    in.UserID,
		Content:   in.Content,
		Status:    models.CommentStatusPending,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, comment.ID); err != nil {
		slog.ErrorContext(ctx, "failed to enqueue moderation unit; comment stays pending",
			"comment_id", comment.ID, "error", err)
	}

	return comment, nil
}

// CommentPage is one cached page of published comments with its meta.
type CommentPage struct {
	Items []*models.Comment `json:"items"`
	Meta  PageMeta          `json:"meta"`
}

// List returns a page of published comments for an article, served through
// the tagged cache. The cache key covers every filter parameter so distinct
// filters never collide, and each entry is tagged with the article's tag so
// a publish flushes all of the article's pages at once.
func (s *CommentService) List(ctx context.Context, articleID uuid.UUID, params ListParams) (*CommentPage, error) {
	params = params.normalized()

	key := cache.CommentListKey(articleID, params.Page, params.PerPage,
		params.Search, formatDate(params.From), formatDate(params.To))
	tags := []string{cache.ArticleTag(articleID)}

	payload, _, err := s.cache.GetOrPopulate(ctx, key, tags, s.policy.CacheTTL(), func(ctx context.Context) ([]byte, error) {
		comments, total, err := s.commentRepo.ListPage(ctx, articleID, models.CommentStatusPublished,
			repository.ListFilter{Search: params.Search, From: params.From, To: params.To},
			params.Page, params.PerPage)
		if err != nil {
			return nil, err
		}
		if comments == nil {
			comments = []*models.Comment{}
		}
		return json.Marshal(CommentPage{
			Items: comments,
			Meta:  NewPageMeta(params.Page, params.PerPage, total),
		})
	})
	if err != nil {
		return nil, err
	}

	var page CommentPage
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}
