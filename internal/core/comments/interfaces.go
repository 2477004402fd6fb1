package comments

import "context"

// Service defines the business logic interface for comments
type Service interface {
	// Create validates and writes a new comment. The parent post's
	// commentCount is incremented in the same database transaction as
	// the insert, so the counter cannot undercount on partial failure.
	// Returns the assigned comment id.
	Create(ctx context.Context, req CreateCommentRequest) (string, error)

	// ListForPost returns the comments belonging to one post in
	// ascending creation order
	ListForPost(ctx context.Context, postID string) ([]*Comment, error)

	// Get returns one comment by id, or ErrCommentNotFound. Orphaned
	// comments (parent post deleted) are still returned.
	Get(ctx context.Context, id string) (*Comment, error)
}

// Repository defines the data access interface for comments
type Repository interface {
	// Create inserts the comment and increments the parent post's
	// comment_count atomically. Returns ErrPostNotFound when the parent
	// post does not exist.
	Create(ctx context.Context, comment *Comment) error

	// ListByPost returns comments filtered server-side by post id,
	// ordered by creation time ascending
	ListByPost(ctx context.Context, postID string) ([]*Comment, error)

	// GetByID returns one comment, or ErrCommentNotFound
	GetByID(ctx context.Context, id string) (*Comment, error)
}
