package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pressbox/internal/cache"
	"pressbox/internal/models"
	"pressbox/internal/moderation"
	"pressbox/internal/repository"
	"pressbox/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPolicy() *moderation.Policy {
	return moderation.NewPolicy("spam,badword", 5*time.Minute)
}

// newCommentTestApp wires a fiber app with the comment routes backed by mock
// repositories, an in-memory cache, and a mock queue. The auth middleware is
// replaced by one injecting the given user id.
func newCommentTestApp(commentRepo *MockCommentRepository, articleRepo *MockArticleRepository, q *MockQueue, userID uuid.UUID) *fiber.App {
	tagged := cache.NewMemoryTaggedCache()
	policy := newTestPolicy()
	s := &Server{
		commentService: service.NewCommentService(commentRepo, articleRepo, q, tagged, policy),
	}

	app := fiber.New()
	app.Post("/articles/:id/comments", func(c *fiber.Ctx) error {
		c.Locals("userID", userID)
		return c.Next()
	}, s.CreateComment)
	app.Get("/articles/:id/comments", s.GetComments)
	return app
}

func TestCreateComment(t *testing.T) {
	articleID := uuid.New()
	userID := uuid.New()

	tests := []struct {
		name           string
		path           string
		body           map[string]string
		mockSetup      func(*MockCommentRepository, *MockArticleRepository, *MockQueue)
		expectedStatus int
		expectedCode   string
	}{
		{
			name: "accepted for moderation",
			path: "/articles/" + articleID.String() + "/comments",
			body: map[string]string{"content": "Nice article"},
			mockSetup: func(cr *MockCommentRepository, ar *MockArticleRepository, q *MockQueue) {
				ar.On("GetByID", mock.Anything, articleID).Return(&models.Article{ID: articleID}, nil)
				cr.On("Create", mock.Anything, mock.Anything).Return(nil)
				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "empty content is unprocessable",
			path:           "/articles/" + articleID.String() + "/comments",
			body:           map[string]string{"content": ""},
			mockSetup:      func(*MockCommentRepository, *MockArticleRepository, *MockQueue) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name: "unknown article",
			path: "/articles/" + articleID.String() + "/comments",
			body: map[string]string{"content": "hello"},
			mockSetup: func(cr *MockCommentRepository, ar *MockArticleRepository, q *MockQueue) {
				ar.On("GetByID", mock.Anything, articleID).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "NOT_FOUND",
		},
		{
			name:           "invalid article id",
			path:           "/articles/not-a-uuid/comments",
			body:           map[string]string{"content": "hello"},
			mockSetup:      func(*MockCommentRepository, *MockArticleRepository, *MockQueue) {},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			commentRepo := new(MockCommentRepository)
			articleRepo := new(MockArticleRepository)
			q := new(MockQueue)
			tt.mockSetup(commentRepo, articleRepo, q)
			app := newCommentTestApp(commentRepo, articleRepo, q, userID)

			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, tt.path, bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedCode != "" {
				var errResp models.ErrorResponse
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
				assert.Equal(t, tt.expectedCode, errResp.Code)
			}

			commentRepo.AssertExpectations(t)
			articleRepo.AssertExpectations(t)
			q.AssertExpectations(t)
		})
	}
}

func TestCreateComment_ResponseShape(t *testing.T) {
	articleID := uuid.New()
	commentRepo := new(MockCommentRepository)
	articleRepo := new(MockArticleRepository)
	q := new(MockQueue)

	articleRepo.On("GetByID", mock.Anything, articleID).Return(&models.Article{ID: articleID}, nil)
	commentRepo.On("Create", mock.Anything, mock.MatchedBy(func(c *models.Comment) bool {
		return c.Status == models.CommentStatusPending
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Comment).ID = uuid.New()
	}).Return(nil)
	q.On("Enqueue", mock.Anything, mock.Anything).Return(nil)

	app := newCommentTestApp(commentRepo, articleRepo, q, uuid.New())

	body, _ := json.Marshal(map[string]string{"content": "Nice article"})
	req := httptest.NewRequest(http.MethodPost, "/articles/"+articleID.String()+"/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var payload struct {
		CommentID string `json:"comment_id"`
		Status    string `json:"status"`
		Message   string `json:"message"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	_, err = uuid.Parse(payload.CommentID)
	assert.NoError(t, err)
	assert.Equal(t, "pending", payload.Status)
	assert.Equal(t, "Comment queued for moderation", payload.Message)
}

func TestGetComments(t *testing.T) {
	articleID := uuid.New()

	t.Run("returns items and meta", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		articleRepo := new(MockArticleRepository)
		comments := []*models.Comment{
			{ID: uuid.New(), ArticleID: articleID, Content: "first", Status: models.CommentStatusPublished},
		}
		commentRepo.On("ListPage", mock.Anything, articleID, models.CommentStatusPublished, mock.Anything, 1, 10).
			Return(comments, int64(15), nil)

		app := newCommentTestApp(commentRepo, articleRepo, new(MockQueue), uuid.New())
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/articles/"+articleID.String()+"/comments", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var page struct {
			Items []json.RawMessage `json:"items"`
			Meta  service.PageMeta  `json:"meta"`
		}
		require.NoError(t, json.Unmarshal(raw, &page))
		assert.Len(t, page.Items, 1)
		assert.Equal(t, service.PageMeta{CurrentPage: 1, LastPage: 2, PerPage: 10, Total: 15}, page.Meta)
	})

	t.Run("filters are forwarded", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		commentRepo.On("ListPage", mock.Anything, articleID, models.CommentStatusPublished,
			mock.MatchedBy(func(f repository.ListFilter) bool {
				return f.Search == "great" && f.From != nil && f.To == nil
			}), 2, 5).
			Return(nil, int64(0), nil)

		app := newCommentTestApp(commentRepo, new(MockArticleRepository), new(MockQueue), uuid.New())
		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/articles/"+articleID.String()+"/comments?page=2&per_page=5&search=great&from=2026-01-01", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		commentRepo.AssertExpectations(t)
	})

	t.Run("invalid date bound", func(t *testing.T) {
		app := newCommentTestApp(new(MockCommentRepository), new(MockArticleRepository), new(MockQueue), uuid.New())
		resp, err := app.Test(httptest.NewRequest(http.MethodGet,
			"/articles/"+articleID.String()+"/comments?from=yesterday", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("empty page keeps items array", func(t *testing.T) {
		commentRepo := new(MockCommentRepository)
		commentRepo.On("ListPage", mock.Anything, articleID, models.CommentStatusPublished, mock.Anything, 1, 10).
			Return(nil, int64(0), nil)

		app := newCommentTestApp(commentRepo, new(MockArticleRepository), new(MockQueue), uuid.New())
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/articles/"+articleID.String()+"/comments", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"items":[]`)
	})
}
