package comments

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

type commentService struct {
	repo Repository
}

// NewCommentService creates a new comment service
func NewCommentService(repo Repository) Service {
	return &commentService{repo: repo}
}

// Create creates a comment on a post. Validation happens before any
// storage call; the insert and the parent counter increment are one
// transaction in the repository.
func (s *commentService) Create(ctx context.Context, req CreateCommentRequest) (string, error) {
	if err := validateCreateRequest(req); err != nil {
		return "", err
	}

	comment := &Comment{
		PostID:     req.PostID,
		AuthorUID:  req.AuthorUID,
		AuthorName: req.AuthorName,
		Content:    strings.TrimSpace(req.Content),
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return "", err
		}
		return "", fmt.Errorf("failed to create comment: %w", err)
	}

	log.Printf("[COMMENT-CREATE] Post: %s, Comment: %s, Author: %s", req.PostID, comment.ID, req.AuthorUID)
	return comment.ID, nil
}

func (s *commentService) ListForPost(ctx context.Context, postID string) ([]*Comment, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "post id is required")
	}
	return s.repo.ListByPost(ctx, postID)
}

func (s *commentService) Get(ctx context.Context, id string) (*Comment, error) {
	if id == "" {
		return nil, NewValidationError("id", "comment id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func validateCreateRequest(req CreateCommentRequest) error {
	if req.AuthorUID == "" {
		return ErrNotSignedIn
	}
	if req.PostID == "" {
		return NewValidationError("postId", "post id is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return NewValidationError("content", "content must not be empty")
	}
	if utf8.RuneCountInString(req.Content) > MaxContentLength {
		return NewValidationError("content",
			fmt.Sprintf("content too long (max %d characters)", MaxContentLength))
	}
	return nil
}
