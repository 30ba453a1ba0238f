package store

import (
	"errors"
	"testing"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestOrderClause(t *testing.T) {
	assert.Equal(t, "created_date desc", orderClause(""))
	assert.Equal(t, "created_date desc", orderClause(models.SortNewestFirst))
	assert.Equal(t, "created_date asc", orderClause("created_date"))
	assert.Equal(t, "", orderClause("title; drop table stories"))
}

func TestStoryRowRoundTrip(t *testing.T) {
	s := models.Story{
		ID:          "0b4c9a2e-6a0f-4d59-9d2e-2f1f3c7a9b10",
		Title:       "t",
		Content:     "c",
		AuthorName:  "a",
		AuthorEmail: "a@example.com",
		Category:    models.CategoryHealth,
		Status:      models.StatusRejected,
		CreatedDate: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.Equal(t, s, storyRowFrom(s).toModel())
}

func TestDBError(t *testing.T) {
	assert.True(t, errors.Is(dbError("op", gorm.ErrRecordNotFound), models.ErrNotFound))
	assert.True(t, errors.Is(dbError("op", errors.New("connection refused")), models.ErrNetwork))
}
