package repository

import (
	"context"
	"errors"
	"fmt"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// PostRepository handles database operations for posts
type PostRepository struct {
	db *database.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.DB) *PostRepository {
	return &PostRepository{db: db}
}

const postColumns = `id::text, couple_id::text, author_id::text, date::text, content, images, starred, created_at`

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID, &post.CoupleID, &post.AuthorID, &post.Date,
		&post.Content, &post.Images, &post.Starred, &post.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if post.Images == nil {
		post.Images = []models.PostImage{}
	}
	return &post, nil
}

func (r *PostRepository) list(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Pool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// Create inserts a new post
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (id, couple_id, author_id, date, content, images, starred, created_at)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8)
	`
	_, err := r.db.Pool().Exec(ctx, query,
		post.ID, post.CoupleID, post.AuthorID, post.Date,
		post.Content, post.Images, post.Starred, post.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// UpdateContent rewrites content and images of a post written by authorID
func (r *PostRepository) UpdateContent(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET content = $4, images = $5
		WHERE id = $1 AND couple_id = $2 AND author_id = $3
	`
	result, err := r.db.Pool().Exec(ctx, query,
		post.ID, post.CoupleID, post.AuthorID, post.Content, post.Images,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID retrieves a post inside a couple
func (r *PostRepository) GetByID(ctx context.Context, coupleID, id string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1 AND couple_id = $2`
	post, err := scanPost(r.db.Pool().QueryRow(ctx, query, id, coupleID))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListSince returns a couple's posts dated on or after since, newest first.
// A non-empty authorID restricts the list to that author.
func (r *PostRepository) ListSince(ctx context.Context, coupleID, since, authorID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE couple_id = $1 AND date >= $2::date AND ($3 = '' OR author_id::text = $3)
		ORDER BY date DESC, created_at DESC
	`
	return r.list(ctx, query, coupleID, since, authorID)
}

// ListByDate returns every post of a couple on one date, newest first
func (r *PostRepository) ListByDate(ctx context.Context, coupleID, date string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE couple_id = $1 AND date = $2::date
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, coupleID, date)
}

// ListStarred returns a couple's starred posts, newest first
func (r *PostRepository) ListStarred(ctx context.Context, coupleID string) ([]*models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE couple_id = $1 AND starred
		ORDER BY date DESC, created_at DESC
	`
	return r.list(ctx, query, coupleID)
}

// SetStarred sets the starred flag, or toggles it when starred is nil, and returns the new value
func (r *PostRepository) SetStarred(ctx context.Context, coupleID, id string, starred *bool) (bool, error) {
	query := `
		UPDATE posts SET starred = COALESCE($3, NOT starred)
		WHERE id = $1 AND couple_id = $2
		RETURNING starred
	`
	var result bool
	err := r.db.Pool().QueryRow(ctx, query, id, coupleID, starred).Scan(&result)
	if err != nil {
		if isNoRows(err) {
			return false, ErrNotFound
		}
		return false, fmt.Errorf("failed to star post: %w", err)
	}
	return result, nil
}

// Delete removes a post written by authorID together with its comments and reactions
func (r *PostRepository) Delete(ctx context.Context, coupleID, authorID, id string) error {
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx,
			`DELETE FROM posts WHERE id = $1 AND couple_id = $2 AND author_id = $3`,
			id, coupleID, authorID)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM comments WHERE post_id = $1`, id); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `DELETE FROM reactions WHERE post_id = $1`, id)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}
