// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CommentStatus is the moderation state of a comment. A comment is created as
// pending and transitions exactly once, to published or rejected.
type CommentStatus string

const (
	CommentStatusPending   CommentStatus = "pending"
	CommentStatusPublished CommentStatus = "published"
	CommentStatusRejected  CommentStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s CommentStatus) Valid() bool {
	switch s {
	case CommentStatusPending, CommentStatusPublished, CommentStatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether the status may move to next. Only
// pending -> published and pending -> rejected are allowed; resolved
// statuses are terminal.
func (s CommentStatus) CanTransitionTo(next CommentStatus) bool {
	if s != CommentStatusPending {
		return false
	}
	return next == CommentStatusPublished || next == CommentStatusRejected
}

// Comment represents a reader comment on an article. Content is immutable
// after creation; moderation only ever changes Status.
type Comment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ArticleID uuid.UUID     `gorm:"type:uuid;not null;index" json:"article_id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null" json:"user_id"`
	Content   string        `gorm:"not null" json:"content"`
	Status    CommentStatus `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key when none is set.
func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
