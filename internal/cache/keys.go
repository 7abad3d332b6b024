package cache

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// ArticleTag is the invalidation tag shared by every cached page of an
// article's comments.
func ArticleTag(articleID uuid.UUID) string {
	return fmt.Sprintf("article:%s", articleID)
}

// CommentListKey builds a deterministic cache key from all listing
// parameters. Distinct filters must never collide, so every parameter is a
// dedicated, escaped segment.
func CommentListKey(articleID uuid.UUID, page, perPage int, search, from, to string) string {
	return fmt.Sprintf("comments:%s:p%d:pp%d:s%s:f%s:t%s",
		articleID, page, perPage,
		url.QueryEscape(search), url.QueryEscape(from), url.QueryEscape(to))
}
