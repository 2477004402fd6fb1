package posts

import "time"

// Limits for post content and attachments.
const (
	MaxImages        = 3
	MaxContentLength = 10000
)

// Post is one feed entry: author snapshot, text, up to three image URLs,
// and a denormalized comment count maintained by the comment repository.
type Post struct {
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	ID           string    `json:"id"`
	AuthorUID    string    `json:"authorUid"`
	AuthorName   string    `json:"authorName"`
	Content      string    `json:"content"`
	Images       []string  `json:"images"`
	CommentCount int       `json:"commentCount"`
}

// CreatePostRequest is the input for creating a post. Images are local
// references or already-uploaded URLs; the service uploads them before the
// post document is written.
type CreatePostRequest struct {
	AuthorUID  string   `json:"-"`
	AuthorName string   `json:"-"`
	Content    string   `json:"content"`
	Images     []string `json:"images"`
}

// UpdatePostRequest is the input for editing a post. Author identity,
// creation time, and comment count are never touched by an edit.
type UpdatePostRequest struct {
	ID        string   `json:"-"`
	CallerUID string   `json:"-"`
	Content   string   `json:"content"`
	Images    []string `json:"images"`
}
