package posts

import "context"

// Service defines the business logic interface for posts.
// Coordinates validation, image uploads, and the repository.
type Service interface {
	// Create uploads the request's images and writes a new post.
	// Returns the assigned post id.
	Create(ctx context.Context, req CreatePostRequest) (string, error)

	// Get returns one post, or ErrNotFound
	Get(ctx context.Context, id string) (*Post, error)

	// ListAll returns every post, newest first. This is the feed.
	ListAll(ctx context.Context) ([]*Post, error)

	// ListByAuthor returns one author's posts, newest first
	ListByAuthor(ctx context.Context, authorUID string) ([]*Post, error)

	// Update overwrites content and images. Only the author may edit;
	// authorUid, createdAt, and commentCount are preserved.
	Update(ctx context.Context, req UpdatePostRequest) error

	// Delete removes a post. Only the author may delete. Comments are
	// not cascaded; they stay fetchable by id.
	Delete(ctx context.Context, id, callerUID string) error
}

// Repository defines the data access interface for posts
type Repository interface {
	// Create inserts a new post and fills in the assigned id and
	// server timestamps
	Create(ctx context.Context, post *Post) error

	// GetByID returns one post, or ErrNotFound
	GetByID(ctx context.Context, id string) (*Post, error)

	// ListAll returns every post ordered by creation time descending
	ListAll(ctx context.Context) ([]*Post, error)

	// ListByAuthor returns an author's posts ordered by creation time descending
	ListByAuthor(ctx context.Context, authorUID string) ([]*Post, error)

	// Update overwrites content and images and bumps updated_at.
	// Returns ErrNotFound when the post does not exist.
	Update(ctx context.Context, id, content string, images []string) error

	// Delete removes a post. Returns ErrNotFound when it does not exist.
	Delete(ctx context.Context, id string) error
}

// Uploader is the slice of the media uploader the post service consumes.
type Uploader interface {
	// UploadAll resolves each local reference to a remote URL, preserving
	// order. References already pointing at the blob store pass through
	// unchanged.
	UploadAll(ctx context.Context, localRefs []string, ownerUID string) ([]string, error)
}
