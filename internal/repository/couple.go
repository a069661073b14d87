package repository

import (
	"context"
	"errors"
	"fmt"

	"love-journal-backend/internal/database"
	"love-journal-backend/internal/models"

	"github.com/jackc/pgx/v5"
)

// CoupleRepository handles database operations for couples and their members
type CoupleRepository struct {
	db *database.DB
}

// NewCoupleRepository creates a new couple repository
func NewCoupleRepository(db *database.DB) *CoupleRepository {
	return &CoupleRepository{db: db}
}

const coupleSelect = `
	SELECT c.id::text, c.invite_code, c.start_date::text, c.created_at,
		COALESCE(array_agg(m.user_id::text ORDER BY m.position) FILTER (WHERE m.user_id IS NOT NULL), '{}')
	FROM couples c
	LEFT JOIN couple_members m ON m.couple_id = c.id
`

func scanCouple(row pgx.Row) (*models.Couple, error) {
	var couple models.Couple
	err := row.Scan(&couple.ID, &couple.InviteCode, &couple.StartDate, &couple.CreatedAt, &couple.MemberIDs)
	if err != nil {
		return nil, err
	}
	return &couple, nil
}

func getCouple(ctx context.Context, q querier, where string, arg any) (*models.Couple, error) {
	query := coupleSelect + where + ` GROUP BY c.id`
	couple, err := scanCouple(q.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get couple: %w", err)
	}
	return couple, nil
}

// GetByID retrieves a couple by ID
func (r *CoupleRepository) GetByID(ctx context.Context, id string) (*models.Couple, error) {
	return getCouple(ctx, r.db.Pool(), `WHERE c.id = $1`, id)
}

// GetByUserID retrieves the couple a user belongs to
func (r *CoupleRepository) GetByUserID(ctx context.Context, userID string) (*models.Couple, error) {
	return getCouple(ctx, r.db.Pool(),
		`WHERE c.id = (SELECT couple_id FROM couple_members WHERE user_id = $1)`, userID)
}

// GetByInviteCode retrieves a couple by its invite code
func (r *CoupleRepository) GetByInviteCode(ctx context.Context, code string) (*models.Couple, error) {
	return getCouple(ctx, r.db.Pool(), `WHERE c.invite_code = $1`, code)
}

// Create inserts the couple with its first member as creator
func (r *CoupleRepository) Create(ctx context.Context, couple *models.Couple) error {
	if len(couple.MemberIDs) != 1 {
		return fmt.Errorf("a new couple needs exactly one member, got %d", len(couple.MemberIDs))
	}

	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO couples (id, invite_code, start_date, created_at)
			VALUES ($1, $2, $3::date, $4)
		`, couple.ID, couple.InviteCode, couple.StartDate, couple.CreatedAt)
		if err != nil {
			return err
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO couple_members (couple_id, user_id, position, joined_at)
			VALUES ($1, $2, 0, $3)
		`, couple.ID, couple.MemberIDs[0], couple.CreatedAt)
		return err
	})
	if err != nil {
		switch uniqueConstraint(err) {
		case "":
			return fmt.Errorf("failed to create couple: %w", err)
		case "couple_members_user_id_key":
			return ErrAlreadyMember
		default:
			return ErrDuplicate
		}
	}
	return nil
}

// AddMember appends userID as the second member. The couple row is locked
// for the duration so two concurrent joins cannot both succeed.
func (r *CoupleRepository) AddMember(ctx context.Context, coupleID, userID string) (*models.Couple, error) {
	var couple *models.Couple
	err := r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockCouple(ctx, tx, coupleID); err != nil {
			return err
		}

		var count int
		err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM couple_members WHERE couple_id = $1`, coupleID,
		).Scan(&count)
		if err != nil {
			return err
		}
		if count >= 2 {
			return ErrCoupleFull
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO couple_members (couple_id, user_id, position)
			VALUES ($1, $2, $3)
		`, coupleID, userID, count)
		if err != nil {
			return err
		}

		couple, err = getCouple(ctx, tx, `WHERE c.id = $1`, coupleID)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound), errors.Is(err, ErrCoupleFull):
			return nil, err
		case uniqueConstraint(err) == "couple_members_user_id_key":
			return nil, ErrAlreadyMember
		case uniqueConstraint(err) != "":
			return nil, ErrCoupleFull
		}
		return nil, fmt.Errorf("failed to add couple member: %w", err)
	}
	return couple, nil
}

// RemoveMember removes userID from the couple. When nobody is left the couple
// is deleted and deleted is true; when the creator leaves, the remaining
// member becomes the creator.
func (r *CoupleRepository) RemoveMember(ctx context.Context, coupleID, userID string) (deleted bool, err error) {
	err = r.db.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockCouple(ctx, tx, coupleID); err != nil {
			return err
		}

		var position int
		err := tx.QueryRow(ctx, `
			DELETE FROM couple_members WHERE couple_id = $1 AND user_id = $2
			RETURNING position
		`, coupleID, userID).Scan(&position)
		if err != nil {
			if isNoRows(err) {
				return ErrNotFound
			}
			return err
		}

		var remaining int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM couple_members WHERE couple_id = $1`, coupleID,
		).Scan(&remaining)
		if err != nil {
			return err
		}

		if remaining == 0 {
			deleted = true
			_, err = tx.Exec(ctx, `DELETE FROM couples WHERE id = $1`, coupleID)
			return err
		}

		if position == 0 {
			_, err = tx.Exec(ctx,
				`UPDATE couple_members SET position = 0 WHERE couple_id = $1`, coupleID)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, err
		}
		return false, fmt.Errorf("failed to remove couple member: %w", err)
	}
	return deleted, nil
}

// UpdateStartDate sets the start date and the invite code derived from it
func (r *CoupleRepository) UpdateStartDate(ctx context.Context, coupleID, startDate, inviteCode string) error {
	query := `UPDATE couples SET start_date = $2::date, invite_code = $3 WHERE id = $1`
	result, err := r.db.Pool().Exec(ctx, query, coupleID, startDate, inviteCode)
	if err != nil {
		if uniqueConstraint(err) != "" {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update start date: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func lockCouple(ctx context.Context, tx pgx.Tx, coupleID string) error {
	var id string
	err := tx.QueryRow(ctx, `SELECT id::text FROM couples WHERE id = $1 FOR UPDATE`, coupleID).Scan(&id)
	if err != nil {
		if isNoRows(err) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
