package server

import (
	"context"

	"pressbox/internal/models"
	"pressbox/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCommentRepository is a mock of the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) UpdateStatusFrom(ctx context.Context, id uuid.UUID, expected, next models.CommentStatus) (bool, error) {
	args := m.Called(ctx, id, expected, next)
	return args.Bool(0), args.Error(1)
}

func (m *MockCommentRepository) ListPage(ctx context.Context, articleID uuid.UUID, status models.CommentStatus, filter repository.ListFilter, page, perPage int) ([]*models.Comment, int64, error) {
	args := m.Called(ctx, articleID, status, filter, page, perPage)
	var comments []*models.Comment
	if args.Get(0) != nil {
		comments = args.Get(0).([]*models.Comment)
	}
	return comments, args.Get(1).(int64), args.Error(2)
}

// MockArticleRepository is a mock of the ArticleRepository interface
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Article), args.Error(1)
}

func (m *MockArticleRepository) ListPage(ctx context.Context, filter repository.ListFilter, page, perPage int) ([]*models.Article, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	var articles []*models.Article
	if args.Get(0) != nil {
		articles = args.Get(0).([]*models.Article)
	}
	return articles, args.Get(1).(int64), args.Error(2)
}

// MockUserRepository is a mock of the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockQueue is a mock of the queue.Queue interface
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) Enqueue(ctx context.Context, commentID uuid.UUID) error {
	args := m.Called(ctx, commentID)
	return args.Error(0)
}
