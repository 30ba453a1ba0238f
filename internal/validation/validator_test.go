package validation

import (
	"errors"
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStoryInput(t *testing.T) {
	v := New()

	valid := models.StoryInput{
		Title:       "Kind act",
		Content:     "Someone returned my wallet.",
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Category:    models.CategoryKindness,
	}
	require.NoError(t, v.Validate(valid))

	invalid := valid
	invalid.Title = ""
	invalid.Category = "sports"
	invalid.ImageURL = "not a url"

	err := v.Validate(invalid)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{
		"title":     "required",
		"category":  "category",
		"image_url": "url",
	}, verr.Fields)
}

func TestValidateUsesJSONNames(t *testing.T) {
	type login struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password,omitempty" validate:"min=6"`
	}

	err := New().Validate(login{Email: "nope", Password: "abc"})

	var verr *models.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "email", verr.Fields["email"])
	assert.Equal(t, "min", verr.Fields["password"])
}
