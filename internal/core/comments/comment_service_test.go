package comments

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository is a mock implementation of Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, comment *Comment) error {
	args := m.Called(ctx, comment)
	if args.Error(0) == nil {
		comment.ID = "comment-1"
		comment.CreatedAt = time.Now().UTC()
	}
	return args.Error(0)
}

func (m *MockRepository) ListByPost(ctx context.Context, postID string) ([]*Comment, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Comment), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Comment), args.Error(1)
}

func validRequest() CreateCommentRequest {
	return CreateCommentRequest{
		PostID:     "post-1",
		AuthorUID:  "uid-1",
		AuthorName: "Jamie",
		Content:    "nice photo",
	}
}

func TestCreateComment_Validation(t *testing.T) {
	tests := []struct {
		mutate  func(*CreateCommentRequest)
		name    string
		wantErr error
	}{
		{func(r *CreateCommentRequest) { r.AuthorUID = "" }, "not signed in", ErrNotSignedIn},
		{func(r *CreateCommentRequest) { r.PostID = "" }, "missing post id", nil},
		{func(r *CreateCommentRequest) { r.Content = " \n " }, "blank content", nil},
		{func(r *CreateCommentRequest) {
			r.Content = strings.Repeat("한", MaxContentLength+1)
		}, "content too long", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewCommentService(repo)

			req := validRequest()
			tt.mutate(&req)

			_, err := service.Create(context.Background(), req)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.True(t, IsValidationError(err), "expected validation error, got %v", err)
			}
			repo.AssertNotCalled(t, "Create")
		})
	}
}

func TestCreateComment_MaxLengthBoundary(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	req := validRequest()
	req.Content = strings.Repeat("a", MaxContentLength)

	_, err := service.Create(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateComment_SnapshotsAuthor(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *Comment) bool {
		return c.PostID == "post-1" &&
			c.AuthorUID == "uid-1" &&
			c.AuthorName == "Jamie" &&
			c.Content == "nice photo"
	})).Return(nil)

	id, err := service.Create(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "comment-1", id)
	repo.AssertExpectations(t)
}

func TestCreateComment_PostGone(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)

	repo.On("Create", mock.Anything, mock.Anything).Return(ErrPostNotFound)

	_, err := service.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateComment_PostGoneWrapped(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)

	// Repositories may wrap the sentinel with transaction context.
	repo.On("Create", mock.Anything, mock.Anything).
		Return(fmt.Errorf("comment tx: %w", ErrPostNotFound))

	_, err := service.Create(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestListForPost(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)

	want := []*Comment{
		{ID: "c1", PostID: "post-1"},
		{ID: "c2", PostID: "post-1"},
	}
	repo.On("ListByPost", mock.Anything, "post-1").Return(want, nil)

	got, err := service.ListForPost(context.Background(), "post-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = service.ListForPost(context.Background(), "")
	assert.True(t, IsValidationError(err))
}

func TestGet_OrphanStillFetchable(t *testing.T) {
	repo := new(MockRepository)
	service := NewCommentService(repo)

	// The repository does not care whether the parent post still exists.
	orphan := &Comment{ID: "c1", PostID: "deleted-post"}
	repo.On("GetByID", mock.Anything, "c1").Return(orphan, nil)

	got, err := service.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Same(t, orphan, got)
}
