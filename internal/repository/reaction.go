package repository

import (
	"context"
	"fmt"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"
)

// ReactionRepository handles database operations for reactions
type ReactionRepository struct {
	db *database.DB
}

// NewReactionRepository creates a new reaction repository
func NewReactionRepository(db *database.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Upsert stores the reaction, replacing the type of an existing (post, user) reaction.
// ID and CreatedAt are overwritten with the stored row's values.
func (r *ReactionRepository) Upsert(ctx context.Context, reaction *models.Reaction) error {
	query := `
		INSERT INTO reactions (id, post_id, user_id, type, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (post_id, user_id) DO UPDATE SET type = EXCLUDED.type
		RETURNING id::text, created_at
	`
	err := r.db.Pool().QueryRow(ctx, query,
		reaction.ID, reaction.PostID, reaction.UserID, string(reaction.Type), reaction.CreatedAt,
	).Scan(&reaction.ID, &reaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save reaction: %w", err)
	}
	return nil
}

// ListByPost returns all reactions on a post, oldest first
func (r *ReactionRepository) ListByPost(ctx context.Context, postID string) ([]*models.Reaction, error) {
	query := `
		SELECT id::text, post_id::text, user_id::text, type, created_at
		FROM reactions
		WHERE post_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.Pool().Query(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	defer rows.Close()

	reactions := []*models.Reaction{}
	for rows.Next() {
		var reaction models.Reaction
		var typ string
		if err := rows.Scan(&reaction.ID, &reaction.PostID, &reaction.UserID, &typ, &reaction.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan reaction: %w", err)
		}
		reaction.Type = models.ReactionType(typ)
		reactions = append(reactions, &reaction)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reactions: %w", err)
	}
	return reactions, nil
}

// Delete removes a user's reaction on a post. Removing a missing reaction is not an error.
func (r *ReactionRepository) Delete(ctx context.Context, postID, userID string) error {
	_, err := r.db.Pool().Exec(ctx, `DELETE FROM reactions WHERE post_id = $1 AND user_id = $2`, postID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete reaction: %w", err)
	}
	return nil
}
