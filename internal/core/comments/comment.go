package comments

import "time"

// MaxContentLength is the maximum comment length in characters.
const MaxContentLength = 500

// Comment is a reply attached to exactly one post. Comments are never
// edited or deleted; deleting a post orphans its comments rather than
// cascading (they remain fetchable by id).
type Comment struct {
	CreatedAt  time.Time `json:"createdAt"`
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorUID  string    `json:"authorUid"`
	AuthorName string    `json:"authorName"`
	Content    string    `json:"content"`
}

// CreateCommentRequest is the input for creating a comment.
type CreateCommentRequest struct {
	PostID     string `json:"-"`
	AuthorUID  string `json:"-"`
	AuthorName string `json:"-"`
	Content    string `json:"content"`
}
