package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Date     string  `json:"startDate" validate:"required,isodate"`
	Mood     string  `json:"mood" validate:"required,mood"`
	Reaction string  `json:"type" validate:"omitempty,reaction"`
	Email    *string `json:"email" validate:"omitempty,email"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sample{Date: "2024-02-29", Mood: "calm"}))

	err := ValidateStruct(&sample{Mood: "calm"})
	assert.EqualError(t, err, "startDate is required")

	err = ValidateStruct(&sample{Date: "2023-02-29", Mood: "calm"})
	assert.EqualError(t, err, "startDate must be a date in YYYY-MM-DD format")

	err = ValidateStruct(&sample{Date: "2024-01-01", Mood: "meh"})
	assert.Contains(t, err.Error(), "mood must be one of happy, sad")

	err = ValidateStruct(&sample{Date: "2024-01-01", Mood: "sad", Reaction: "boo"})
	assert.EqualError(t, err, "Invalid reaction type")

	bad := "nope"
	err = ValidateStruct(&sample{Date: "2024-01-01", Mood: "sad", Email: &bad})
	assert.EqualError(t, err, "email must be a valid email")
}

func TestVar(t *testing.T) {
	assert.NoError(t, Var("an@example.com", "required,email"))
	assert.Error(t, Var("", "required,email"))
	assert.Error(t, Var("An <an@example.com>", "required,email"))
	assert.Error(t, Var("2024-13-01", "isodate"))
}
