package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storyRow is the stories table
type storyRow struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	Title       string    `gorm:"type:text;not null"`
	Content     string    `gorm:"type:text;not null"`
	AuthorName  string    `gorm:"type:varchar(100);not null"`
	AuthorEmail string    `gorm:"type:varchar(320);not null;index"`
	Location    string    `gorm:"type:varchar(200)"`
	Category    string    `gorm:"type:varchar(20);not null;default:'kindness'"`
	ImageURL    string    `gorm:"type:text"`
	Status      string    `gorm:"type:varchar(10);not null;default:'pending';index"`
	CreatedDate time.Time `gorm:"not null;index"`
}

func (storyRow) TableName() string { return "stories" }

func (r storyRow) toModel() models.Story {
	return models.Story{
		ID:          r.ID,
		Title:       r.Title,
		Content:     r.Content,
		AuthorName:  r.AuthorName,
		AuthorEmail: r.AuthorEmail,
		Location:    r.Location,
		Category:    models.Category(r.Category),
		ImageURL:    r.ImageURL,
		Status:      models.Status(r.Status),
		CreatedDate: r.CreatedDate,
	}
}

func storyRowFrom(s models.Story) storyRow {
	return storyRow{
		ID:          s.ID,
		Title:       s.Title,
		Content:     s.Content,
		AuthorName:  s.AuthorName,
		AuthorEmail: s.AuthorEmail,
		Location:    s.Location,
		Category:    string(s.Category),
		ImageURL:    s.ImageURL,
		Status:      string(s.Status),
		CreatedDate: s.CreatedDate,
	}
}

// userRow is the users table
type userRow struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(320);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:text"`
	Provider     string    `gorm:"type:varchar(10);not null;default:'local'"`
	GoogleID     string    `gorm:"type:varchar(64);index"`
	CreatedDate  time.Time `gorm:"not null"`
}

func (userRow) TableName() string { return "users" }

func (r userRow) toModel() models.User {
	return models.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Provider:     r.Provider,
		GoogleID:     r.GoogleID,
		CreatedDate:  r.CreatedDate,
	}
}

// Postgres stores stories and users in PostgreSQL through gorm
type Postgres struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPostgres opens dsn and migrates the schema
func NewPostgres(dsn string) (*Postgres, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&storyRow{}, &userRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Postgres{db: db, now: time.Now}, nil
}

func (p *Postgres) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// orderClause translates the entity API sort key into SQL
func orderClause(sort string) string {
	switch sort {
	case "created_date":
		return "created_date asc"
	case "", models.SortNewestFirst:
		return "created_date desc"
	}
	return ""
}

func (p *Postgres) List(ctx context.Context, sort string) ([]models.Story, error) {
	return p.Filter(ctx, models.StoryFilter{}, sort)
}

func (p *Postgres) Filter(ctx context.Context, filter models.StoryFilter, sort string) ([]models.Story, error) {
	q := p.db.WithContext(ctx).Model(&storyRow{})
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.AuthorEmail != "" {
		q = q.Where("author_email = ?", filter.AuthorEmail)
	}
	if order := orderClause(sort); order != "" {
		q = q.Order(order)
	}

	var rows []storyRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, dbError("list stories", err)
	}

	stories := make([]models.Story, 0, len(rows))
	for _, r := range rows {
		stories = append(stories, r.toModel())
	}
	return stories, nil
}

func (p *Postgres) Get(ctx context.Context, id string) (*models.Story, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}

	var row storyRow
	if err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, dbError("get story "+id, err)
	}
	s := row.toModel()
	return &s, nil
}

func (p *Postgres) Create(ctx context.Context, input models.StoryInput) (*models.Story, error) {
	s := newStory(input, p.now())
	row := storyRowFrom(s)
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, dbError("create story", err)
	}
	return &s, nil
}

func (p *Postgres) Update(ctx context.Context, id string, patch models.StoryPatch) (*models.Story, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}

	res := p.db.WithContext(ctx).
		Model(&storyRow{}).
		Where("id = ?", id).
		Update("status", string(patch.Status))
	if res.Error != nil {
		return nil, dbError("update story "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	return p.Get(ctx, id)
}

func (p *Postgres) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}

	res := p.db.WithContext(ctx).Where("id = ?", id).Delete(&storyRow{})
	if res.Error != nil {
		return dbError("delete story "+id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("story %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (p *Postgres) CreateUser(ctx context.Context, user *models.User) error {
	user.Email = NormalizeEmail(user.Email)
	if user.CreatedDate.IsZero() {
		user.CreatedDate = p.now().UTC()
	}

	row := userRow{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Provider:     user.Provider,
		GoogleID:     user.GoogleID,
		CreatedDate:  user.CreatedDate,
	}
	if err := p.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("user %s: %w", user.Email, models.ErrConflict)
		}
		return dbError("create user", err)
	}
	return nil
}

func (p *Postgres) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	if err := p.db.WithContext(ctx).First(&row, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return nil, dbError("get user", err)
	}
	u := row.toModel()
	return &u, nil
}

func (p *Postgres) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}

	var row userRow
	if err := p.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, dbError("get user "+id, err)
	}
	u := row.toModel()
	return &u, nil
}

// dbError maps a missing record to ErrNotFound and anything else to ErrNetwork
func dbError(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w: %v", op, models.ErrNetwork, err)
}
