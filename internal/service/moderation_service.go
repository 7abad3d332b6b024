package service

import (
	"context"
	"log/slog"

	"pressbox/internal/cache"
	"pressbox/internal/middleware"
	"pressbox/internal/models"
	"pressbox/internal/moderation"
	"pressbox/internal/repository"

	"github.com/google/uuid"
)

// ModerationService processes units of moderation work. Process is the
// queue handler: a returned error means the unit should be redelivered,
// nil means it is finished (including the case where another delivery
// already resolved the comment).
type ModerationService struct {
	commentRepo repository.CommentRepository
	cache       cache.TaggedCache
	policy      *moderation.Policy
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	commentRepo repository.CommentRepository,
	c cache.TaggedCache,
	policy *moderation.Policy,
) *ModerationService {
	return &ModerationService{
		commentRepo: commentRepo,
		cache:       c,
		policy:      policy,
	}
}

// Process moderates a single pending comment. The status transition is a
// compare-and-set on pending, so duplicate deliveries of the same unit
// resolve to exactly one transition; losers are silent no-ops.
func (s *ModerationService) Process(ctx context.Context, commentID uuid.UUID) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		middleware.ModerationOutcomes.WithLabelValues("failed").Inc()
		return err
	}
	if comment == nil {
		// Deleted between submit and delivery; nothing to do.
		slog.WarnContext(ctx, "moderation unit references missing comment", "comment_id", commentID)
		middleware.ModerationOutcomes.WithLabelValues("skipped").Inc()
		return nil
	}
	if comment.Status != models.CommentStatusPending {
		middleware.ModerationOutcomes.WithLabelValues("skipped").Inc()
		return nil
	}

	next := models.CommentStatusPublished
	if moderation.Classify(comment.Content, s.policy.BannedKeywords()) == moderation.VerdictReject {
		next = models.CommentStatusRejected
	}

	ok, err := s.commentRepo.UpdateStatusFrom(ctx, commentID, models.CommentStatusPending, next)
	if err != nil {
		middleware.ModerationOutcomes.WithLabelValues("failed").Inc()
		return err
	}
	if !ok {
		// Another delivery won the compare-and-set.
		middleware.ModerationOutcomes.WithLabelValues("skipped").Inc()
		return nil
	}

	slog.InfoContext(ctx, "comment moderated",
		"comment_id", commentID, "article_id", comment.ArticleID, "status", next)
	middleware.ModerationOutcomes.WithLabelValues(string(next)).Inc()

	// Only a publish changes what readers see, so only a publish flushes.
	// A flush failure is not worth redelivering: the transition already
	// happened and a retry would CAS-skip without reaching this point, so
	// the stale entries are left to their TTL.
	if next == models.CommentStatusPublished {
		if err := s.cache.FlushTag(ctx, cache.ArticleTag(comment.ArticleID)); err != nil {
			slog.ErrorContext(ctx, "failed to flush article cache tag after publish",
				"article_id", comment.ArticleID, "error", err)
		}
	}
	return nil
}
