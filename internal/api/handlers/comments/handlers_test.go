package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anyboard/internal/api/middleware"
	"anyboard/internal/core/comments"
	"anyboard/internal/core/sessions"
)

// mockCommentService implements comments.Service with overridable functions
type mockCommentService struct {
	createFunc      func(ctx context.Context, req comments.CreateCommentRequest) (string, error)
	listForPostFunc func(ctx context.Context, postID string) ([]*comments.Comment, error)
}

func (m *mockCommentService) Create(ctx context.Context, req comments.CreateCommentRequest) (string, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, req)
	}
	return "comment-1", nil
}

func (m *mockCommentService) ListForPost(ctx context.Context, postID string) ([]*comments.Comment, error) {
	if m.listForPostFunc != nil {
		return m.listForPostFunc(ctx, postID)
	}
	return nil, nil
}

func (m *mockCommentService) Get(ctx context.Context, id string) (*comments.Comment, error) {
	return nil, comments.ErrCommentNotFound
}

func requestWithPostID(req *http.Request, postID string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", postID)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func signedIn(req *http.Request, uid, name string) *http.Request {
	session := &sessions.Session{
		Token:       "token-" + uid,
		UID:         uid,
		DisplayName: name,
		Email:       uid + "@example.com",
		CreatedAt:   time.Now(),
		ExpiresAt:   time.Now().Add(time.Hour),
	}
	return req.WithContext(middleware.SetTestSession(req.Context(), session, session.Token))
}

func TestCreateCommentHandler_SnapshotsAuthorFromSession(t *testing.T) {
	var got comments.CreateCommentRequest
	service := &mockCommentService{
		createFunc: func(ctx context.Context, req comments.CreateCommentRequest) (string, error) {
			got = req
			return "comment-9", nil
		},
	}
	handler := NewCreateCommentHandler(service)

	body, _ := json.Marshal(map[string]string{"content": "nice post"})
	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/comments", bytes.NewReader(body))
	req = signedIn(requestWithPostID(req, "post-1"), "uid-1", "Commenter")
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "post-1", got.PostID)
	assert.Equal(t, "uid-1", got.AuthorUID)
	assert.Equal(t, "Commenter", got.AuthorName)
	assert.Equal(t, "nice post", got.Content)

	var resp createCommentResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "comment-9", resp.ID)
}

func TestCreateCommentHandler_RequiresSession(t *testing.T) {
	handler := NewCreateCommentHandler(&mockCommentService{})

	body, _ := json.Marshal(map[string]string{"content": "anonymous"})
	req := httptest.NewRequest(http.MethodPost, "/posts/post-1/comments", bytes.NewReader(body))
	req = requestWithPostID(req, "post-1")
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateCommentHandler_PostGone(t *testing.T) {
	service := &mockCommentService{
		createFunc: func(ctx context.Context, req comments.CreateCommentRequest) (string, error) {
			return "", comments.ErrPostNotFound
		},
	}
	handler := NewCreateCommentHandler(service)

	body, _ := json.Marshal(map[string]string{"content": "too late"})
	req := httptest.NewRequest(http.MethodPost, "/posts/gone/comments", bytes.NewReader(body))
	req = signedIn(requestWithPostID(req, "gone"), "uid-1", "Latecomer")
	rec := httptest.NewRecorder()
	handler.HandleCreate(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "PostNotFound")
}

func TestGetCommentsHandler_EmptyThreadIsEmptyArray(t *testing.T) {
	handler := NewGetCommentsHandler(&mockCommentService{})

	req := requestWithPostID(httptest.NewRequest(http.MethodGet, "/posts/post-1/comments", nil), "post-1")
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"comments":[]}`, rec.Body.String())
}

func TestGetCommentsHandler_ReturnsThread(t *testing.T) {
	now := time.Now().UTC()
	service := &mockCommentService{
		listForPostFunc: func(ctx context.Context, postID string) ([]*comments.Comment, error) {
			return []*comments.Comment{
				{ID: "c1", PostID: postID, AuthorName: "A", Content: "first", CreatedAt: now},
				{ID: "c2", PostID: postID, AuthorName: "B", Content: "second", CreatedAt: now},
			}, nil
		},
	}
	handler := NewGetCommentsHandler(service)

	req := requestWithPostID(httptest.NewRequest(http.MethodGet, "/posts/post-1/comments", nil), "post-1")
	rec := httptest.NewRecorder()
	handler.HandleList(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listCommentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Comments, 2)
	assert.Equal(t, "first", resp.Comments[0].Content)
	assert.Equal(t, "second", resp.Comments[1].Content)
}
