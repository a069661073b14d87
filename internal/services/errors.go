package services

import (
	"errors"
	"fmt"

	"love-journal-backend/internal/repository"
)

// Kind classifies a service failure for the transport layer
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUnavailable
	// A remote dependency other than the database failed
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnavailable:
		return "unavailable"
	case KindUpstream:
		return "upstream"
	default:
		return "internal"
	}
}

// Error is a typed service failure with a short user-facing message
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind and message so wrapped copies still compare equal
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation returns a validation error with the given message
func Validation(message string) error {
	return newError(KindValidation, message)
}

var (
	ErrUnauthorized      = newError(KindUnauthorized, "Unauthorized")
	ErrInvalidCredential = newError(KindUnauthorized, "Invalid email or password")
	ErrEmailTaken        = newError(KindConflict, "Email already in use")
	ErrUserNotFound      = newError(KindNotFound, "User not found")

	ErrInvalidDate       = newError(KindValidation, "Invalid date format, expected YYYY-MM-DD")
	ErrFutureDate        = newError(KindValidation, "Start date cannot be in the future")
	ErrAlreadyPaired     = newError(KindConflict, "You are already in a couple")
	ErrInviteNotFound    = newError(KindNotFound, "Invalid invite code")
	ErrCoupleFull        = newError(KindConflict, "This couple is already full")
	ErrNotPaired         = newError(KindConflict, "You are not in a couple")
	ErrNoCouple          = newError(KindNotFound, "No couple found")
	ErrNotCreator        = newError(KindForbidden, "Only the couple creator can change the start date")
	ErrStartDateConflict = newError(KindConflict, "Another couple already uses this start date")

	ErrInvalidMood       = newError(KindValidation, "Invalid mood")
	ErrMoodEventNotFound = newError(KindNotFound, "Mood event not found")

	ErrPostNotFound     = newError(KindNotFound, "Post not found")
	ErrCommentNotFound  = newError(KindNotFound, "Parent comment not found")
	ErrInvalidReaction  = newError(KindValidation, "Invalid reaction type")
	ErrEmptyMessage     = newError(KindValidation, "Message must have text, image or audio")
	ErrEmptyComment     = newError(KindValidation, "Comment text is required")
	ErrNestedReply      = newError(KindValidation, "Replies can only be one level deep")
	ErrInvalidCursor    = newError(KindValidation, "Invalid cursor")
	ErrUnsupportedMedia = newError(KindValidation, "Only image and audio files are allowed")
	ErrFileTooLarge     = newError(KindValidation, "File is too large")
	ErrMediaUnavailable = newError(KindUpstream, "Media storage unavailable")
)

// storeError translates a repository failure into the service taxonomy.
// notFound is returned for repository.ErrNotFound; everything else is Unavailable.
func storeError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	if notFound != nil && errors.Is(err, repository.ErrNotFound) {
		return notFound
	}
	return &Error{Kind: KindUnavailable, Message: "Database unavailable", Err: err}
}

// KindOf returns the kind of err, or KindInternal when it is not a service error
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindInternal
}

// MessageOf returns the user-facing message of err
func MessageOf(err error) string {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Message
	}
	return "Internal server error"
}
