package service

import (
	"context"
	"sync"
	"time"

	"pressbox/internal/cache"
	"pressbox/internal/models"
	"pressbox/internal/repository"

	"github.com/google/uuid"
)

// Hand-rolled fakes shared by the service tests.

type stubCommentRepo struct {
	mu       sync.Mutex
	comments map[uuid.UUID]*models.Comment

	createErr     error
	getErr        error
	updateErr     error
	listErr       error
	listCalls     int
	lastListPage  int
	lastListPer   int
	lastFilter    repository.ListFilter
	listComments  []*models.Comment
	listTotal     int64
	created       []*models.Comment
	transitionLog []models.CommentStatus
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[uuid.UUID]*models.Comment)}
}

func (r *stubCommentRepo) put(c *models.Comment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments[c.ID] = c
}

func (r *stubCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	r.comments[comment.ID] = comment
	r.created = append(r.created, comment)
	return nil
}

func (r *stubCommentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Comment, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.comments[id], nil
}

func (r *stubCommentRepo) UpdateStatusFrom(_ context.Context, id uuid.UUID, expected, next models.CommentStatus) (bool, error) {
	if r.updateErr != nil {
		return false, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok || c.Status != expected {
		return false, nil
	}
	c.Status = next
	r.transitionLog = append(r.transitionLog, next)
	return true, nil
}

func (r *stubCommentRepo) ListPage(_ context.Context, _ uuid.UUID, _ models.CommentStatus, filter repository.ListFilter, page, perPage int) ([]*models.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listCalls++
	r.lastListPage = page
	r.lastListPer = perPage
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	return r.listComments, r.listTotal, nil
}

type stubArticleRepo struct {
	articles map[uuid.UUID]*models.Article
	getErr   error
}

func newStubArticleRepo(articles ...*models.Article) *stubArticleRepo {
	r := &stubArticleRepo{articles: make(map[uuid.UUID]*models.Article)}
	for _, a := range articles {
		r.articles[a.ID] = a
	}
	return r
}

func (r *stubArticleRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Article, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.articles[id], nil
}

func (r *stubArticleRepo) ListPage(_ context.Context, _ repository.ListFilter, _, _ int) ([]*models.Article, int64, error) {
	out := make([]*models.Article, 0, len(r.articles))
	for _, a := range r.articles {
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

type stubQueue struct {
	mu       sync.Mutex
	enqueued []uuid.UUID
	err      error
}

func (q *stubQueue) Enqueue(_ context.Context, commentID uuid.UUID) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, commentID)
	return nil
}

func (q *stubQueue) ids() []uuid.UUID {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]uuid.UUID(nil), q.enqueued...)
}

// stubCache records population and flushes without any TTL behavior.
type stubCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	flushed []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string][]byte)}
}

func (c *stubCache) GetOrPopulate(ctx context.Context, key string, _ []string, _ time.Duration, populate cache.PopulateFunc) ([]byte, bool, error) {
	c.mu.Lock()
	if payload, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return payload, true, nil
	}
	c.mu.Unlock()

	payload, err := populate(ctx)
	if err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	c.entries[key] = payload
	c.mu.Unlock()
	return payload, false, nil
}

func (c *stubCache) FlushTag(_ context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushed = append(c.flushed, tag)
	return nil
}
