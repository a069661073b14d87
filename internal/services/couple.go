package services

import (
	"context"
	"errors"
	"time"

	"love-journal-backend/internal/metrics"
	"love-journal-backend/internal/models"
	"love-journal-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// CoupleService handles pairing: creating a couple, joining by invite code,
// leaving, and editing the relationship start date
type CoupleService struct {
	couples CoupleStore
	users   UserStore
	now     Clock
	loc     *time.Location
}

// NewCoupleService creates a new couple service
func NewCoupleService(couples CoupleStore, users UserStore, now Clock, loc *time.Location) *CoupleService {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &CoupleService{couples: couples, users: users, now: now, loc: loc}
}

// CoupleMember is a member's public profile
type CoupleMember struct {
	ID    string
	Name  string
	Email string
	Image *string
}

// CoupleDetails is the caller's couple with member profiles
type CoupleDetails struct {
	Couple     *models.Couple
	Members    []CoupleMember
	DaysInLove int
}

func (s *CoupleService) today() string {
	return Today(s.now(), s.loc)
}

// GetCoupleForUser returns the caller's couple, or nil when the caller is unpaired
func (s *CoupleService) GetCoupleForUser(ctx context.Context, userID string) (*models.Couple, error) {
	couple, err := s.couples.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, storeError(err, nil)
	}
	return couple, nil
}

// GetCoupleDetails returns the caller's couple with member profiles, or nil when unpaired
func (s *CoupleService) GetCoupleDetails(ctx context.Context, userID string) (*CoupleDetails, error) {
	couple, err := s.GetCoupleForUser(ctx, userID)
	if err != nil || couple == nil {
		return nil, err
	}

	users, err := s.users.GetByIDs(ctx, couple.MemberIDs)
	if err != nil {
		return nil, storeError(err, nil)
	}

	details := &CoupleDetails{Couple: couple, Members: make([]CoupleMember, 0, len(couple.MemberIDs))}
	for _, id := range couple.MemberIDs {
		user, ok := users[id]
		if !ok {
			continue
		}
		details.Members = append(details.Members, CoupleMember{
			ID: user.ID, Name: user.Name, Email: user.Email, Image: user.Image,
		})
	}
	if couple.StartDate != nil {
		details.DaysInLove = DaysInLove(*couple.StartDate, s.today())
	}
	return details, nil
}

// CreateCouple starts a couple with the caller as creator
func (s *CoupleService) CreateCouple(ctx context.Context, callerID, startDate string) (couple *models.Couple, err error) {
	defer func() { metrics.RecordPairing("create", err) }()

	if err := validatePastDate(startDate, s.today()); err != nil {
		return nil, err
	}
	code, err := DeriveInviteCode(startDate)
	if err != nil {
		return nil, err
	}

	existing, err := s.GetCoupleForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaired
	}

	couple = &models.Couple{
		ID:         uuid.New().String(),
		MemberIDs:  []string{callerID},
		InviteCode: code,
		StartDate:  &startDate,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.couples.Create(ctx, couple); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyMember):
			return nil, ErrAlreadyPaired
		case errors.Is(err, repository.ErrDuplicate):
			return nil, ErrStartDateConflict
		}
		return nil, storeError(err, nil)
	}

	log.Info().
		Str("user_id", callerID).
		Str("couple_id", couple.ID).
		Str("invite_code", couple.InviteCode).
		Msg("Couple created")
	return couple, nil
}

// JoinCouple adds the caller as second member of the couple owning code
func (s *CoupleService) JoinCouple(ctx context.Context, callerID, code string) (couple *models.Couple, err error) {
	defer func() { metrics.RecordPairing("join", err) }()

	code = NormalizeInviteCode(code)
	if code == "" {
		return nil, Validation("Invite code is required")
	}

	existing, err := s.GetCoupleForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyPaired
	}

	// Every real code decodes to a calendar date.
	if _, err := DecodeInviteCode(code); err != nil {
		return nil, err
	}

	target, err := s.couples.GetByInviteCode(ctx, code)
	if err != nil {
		return nil, storeError(err, ErrInviteNotFound)
	}
	if len(target.MemberIDs) >= 2 {
		return nil, ErrCoupleFull
	}

	couple, err = s.couples.AddMember(ctx, target.ID, callerID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCoupleFull):
			return nil, ErrCoupleFull
		case errors.Is(err, repository.ErrAlreadyMember):
			return nil, ErrAlreadyPaired
		}
		return nil, storeError(err, ErrInviteNotFound)
	}

	log.Info().
		Str("user_id", callerID).
		Str("couple_id", couple.ID).
		Msg("Joined couple")
	return couple, nil
}

// LeaveCouple removes the caller from their couple, deleting it when nobody is left
func (s *CoupleService) LeaveCouple(ctx context.Context, callerID string) (err error) {
	defer func() { metrics.RecordPairing("leave", err) }()

	couple, err := s.GetCoupleForUser(ctx, callerID)
	if err != nil {
		return err
	}
	if couple == nil {
		return ErrNotPaired
	}

	deleted, err := s.couples.RemoveMember(ctx, couple.ID, callerID)
	if err != nil {
		return storeError(err, ErrNotPaired)
	}

	log.Info().
		Str("user_id", callerID).
		Str("couple_id", couple.ID).
		Bool("couple_deleted", deleted).
		Msg("Left couple")
	return nil
}

// UpdateStartDate changes the relationship start date and re-derives the
// invite code from it. Only the creator may do this.
func (s *CoupleService) UpdateStartDate(ctx context.Context, callerID, startDate string) (couple *models.Couple, err error) {
	defer func() { metrics.RecordPairing("update_start_date", err) }()

	if err := validatePastDate(startDate, s.today()); err != nil {
		return nil, err
	}
	code, err := DeriveInviteCode(startDate)
	if err != nil {
		return nil, err
	}

	couple, err = s.GetCoupleForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if couple == nil {
		return nil, ErrNoCouple
	}
	if couple.CreatorID() != callerID {
		return nil, ErrNotCreator
	}

	if err := s.couples.UpdateStartDate(ctx, couple.ID, startDate, code); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrStartDateConflict
		}
		return nil, storeError(err, ErrNoCouple)
	}

	couple.StartDate = &startDate
	couple.InviteCode = code
	log.Info().
		Str("user_id", callerID).
		Str("couple_id", couple.ID).
		Str("start_date", startDate).
		Msg("Couple start date updated")
	return couple, nil
}
