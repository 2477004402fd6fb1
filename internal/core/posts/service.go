package posts

import (
	"context"
	"fmt"
	"log"
	"strings"
	"unicode/utf8"
)

type postService struct {
	repo     Repository
	uploader Uploader
}

// NewPostService creates a new post service
func NewPostService(repo Repository, uploader Uploader) Service {
	return &postService{
		repo:     repo,
		uploader: uploader,
	}
}

// Create creates a new post.
// Flow:
// 1. Validate input (before any network call; nothing is mutated on failure)
// 2. Upload all images concurrently; any failure aborts the whole action
// 3. Write the post document with commentCount=0 and server timestamps
// 4. Return the assigned id
//
// A post write that fails after step 2 leaves the uploaded blobs orphaned.
// That is accepted; there is no cleanup pass.
func (s *postService) Create(ctx context.Context, req CreatePostRequest) (string, error) {
	if err := validateCreateRequest(req); err != nil {
		return "", err
	}

	imageURLs, err := s.uploader.UploadAll(ctx, req.Images, req.AuthorUID)
	if err != nil {
		return "", fmt.Errorf("failed to upload images: %w", err)
	}

	post := &Post{
		AuthorUID:  req.AuthorUID,
		AuthorName: req.AuthorName,
		Content:    strings.TrimSpace(req.Content),
		Images:     imageURLs,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}

	log.Printf("[POST-CREATE] Author: %s, Post: %s, Images: %d", req.AuthorUID, post.ID, len(imageURLs))
	return post.ID, nil
}

func (s *postService) Get(ctx context.Context, id string) (*Post, error) {
	if id == "" {
		return nil, NewValidationError("id", "post id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *postService) ListAll(ctx context.Context) ([]*Post, error) {
	return s.repo.ListAll(ctx)
}

func (s *postService) ListByAuthor(ctx context.Context, authorUID string) ([]*Post, error) {
	if authorUID == "" {
		return nil, ErrNotSignedIn
	}
	return s.repo.ListByAuthor(ctx, authorUID)
}

// Update edits a post's content and images. Only the author may edit.
// Kept images arrive as blob-store URLs and pass through the uploader
// unchanged; new ones are uploaded. Last writer wins; there is no version
// check.
func (s *postService) Update(ctx context.Context, req UpdatePostRequest) error {
	if req.ID == "" {
		return NewValidationError("id", "post id is required")
	}
	if req.CallerUID == "" {
		return ErrNotSignedIn
	}
	if err := validateContent(req.Content); err != nil {
		return err
	}
	if err := validateImageCount(req.Images); err != nil {
		return err
	}

	existing, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return err
	}
	if existing.AuthorUID != req.CallerUID {
		log.Printf("[POST-UPDATE] Rejected: %s is not the author of %s", req.CallerUID, req.ID)
		return ErrNotAuthorized
	}

	imageURLs, err := s.uploader.UploadAll(ctx, req.Images, existing.AuthorUID)
	if err != nil {
		return fmt.Errorf("failed to upload images: %w", err)
	}

	if err := s.repo.Update(ctx, req.ID, strings.TrimSpace(req.Content), imageURLs); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	log.Printf("[POST-UPDATE] Post: %s", req.ID)
	return nil
}

// Delete removes a post. Comments referencing it are left in place; the
// detail view simply stops resolving them through the post.
func (s *postService) Delete(ctx context.Context, id, callerUID string) error {
	if id == "" {
		return NewValidationError("id", "post id is required")
	}
	if callerUID == "" {
		return ErrNotSignedIn
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.AuthorUID != callerUID {
		log.Printf("[POST-DELETE] Rejected: %s is not the author of %s", callerUID, id)
		return ErrNotAuthorized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	log.Printf("[POST-DELETE] Post: %s", id)
	return nil
}

func validateCreateRequest(req CreatePostRequest) error {
	if req.AuthorUID == "" {
		return ErrNotSignedIn
	}
	if req.AuthorName == "" {
		return NewValidationError("authorName", "authorName must be set from the authenticated user")
	}
	if err := validateContent(req.Content); err != nil {
		return err
	}
	return validateImageCount(req.Images)
}

func validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("content", "content must not be empty")
	}
	if utf8.RuneCountInString(content) > MaxContentLength {
		return NewValidationError("content",
			fmt.Sprintf("content too long (max %d characters)", MaxContentLength))
	}
	return nil
}

func validateImageCount(images []string) error {
	if len(images) == 0 {
		return NewValidationError("images", "at least one image is required")
	}
	if len(images) > MaxImages {
		return NewValidationError("images",
			fmt.Sprintf("too many images (max %d)", MaxImages))
	}
	return nil
}
