package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"anyboard/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Create inserts a new post. The id is assigned here and timestamps come
// from the database so clients cannot backdate entries.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	post.ID = uuid.NewString()

	query := `
		INSERT INTO posts (id, author_uid, author_name, content, images, comment_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx, query,
		post.ID, post.AuthorUID, post.AuthorName, post.Content, pq.Array(post.Images),
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "violates foreign key constraint") {
			return fmt.Errorf("author not found: %s", post.AuthorUID)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	post.CommentCount = 0
	return nil
}

// GetByID retrieves a post by id
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `
		SELECT id, author_uid, author_name, content, images, comment_count, created_at, updated_at
		FROM posts
		WHERE id = $1
	`

	var post posts.Post
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.AuthorUID, &post.AuthorName, &post.Content,
		pq.Array(&post.Images), &post.CommentCount, &post.CreatedAt, &post.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return &post, nil
}

// ListAll returns every post, newest first. The feed is intentionally
// unpaginated; the id tiebreak keeps ordering stable for posts created in
// the same instant.
func (r *postgresPostRepo) ListAll(ctx context.Context) ([]*posts.Post, error) {
	query := `
		SELECT id, author_uid, author_name, content, images, comment_count, created_at, updated_at
		FROM posts
		ORDER BY created_at DESC, id DESC
	`
	return r.queryPosts(ctx, query)
}

// ListByAuthor returns one author's posts, newest first
func (r *postgresPostRepo) ListByAuthor(ctx context.Context, authorUID string) ([]*posts.Post, error) {
	query := `
		SELECT id, author_uid, author_name, content, images, comment_count, created_at, updated_at
		FROM posts
		WHERE author_uid = $1
		ORDER BY created_at DESC, id DESC
	`
	return r.queryPosts(ctx, query, authorUID)
}

// Update overwrites content and images and bumps updated_at. Author,
// created_at, and comment_count are left untouched. Last writer wins.
func (r *postgresPostRepo) Update(ctx context.Context, id, content string, images []string) error {
	query := `
		UPDATE posts
		SET content = $1, images = $2, updated_at = NOW()
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, content, pq.Array(images), id)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

// Delete removes a post. Comments are not cascaded; rows referencing the
// deleted id stay behind as orphans.
func (r *postgresPostRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}

	return nil
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Printf("WARN: failed to close rows: %v", err)
		}
	}()

	var result []*posts.Post
	for rows.Next() {
		var post posts.Post
		err := rows.Scan(
			&post.ID, &post.AuthorUID, &post.AuthorName, &post.Content,
			pq.Array(&post.Images), &post.CommentCount, &post.CreatedAt, &post.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, &post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return result, nil
}
