package models

import "time"

// Status is the publication state of a story
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the lifecycle states
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Category groups stories on the browse page
type Category string

const (
	CategoryKindness    Category = "kindness"
	CategoryAchievement Category = "achievement"
	CategoryCommunity   Category = "community"
	CategoryEnvironment Category = "environment"
	CategoryHealth      Category = "health"
	CategoryEducation   Category = "education"
	CategoryOther       Category = "other"

	// DefaultCategory is used when a submission leaves the category empty
	DefaultCategory = CategoryKindness
)

// Categories lists every category in display order
var Categories = []Category{
	CategoryKindness,
	CategoryAchievement,
	CategoryCommunity,
	CategoryEnvironment,
	CategoryHealth,
	CategoryEducation,
	CategoryOther,
}

var categoryNames = map[Category]string{
	CategoryKindness:    "Acts of Kindness",
	CategoryAchievement: "Achievements",
	CategoryCommunity:   "Community Impact",
	CategoryEnvironment: "Environmental",
	CategoryHealth:      "Health & Wellness",
	CategoryEducation:   "Education",
	CategoryOther:       "Other",
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// DisplayName returns the human readable label, or the raw value for unknown categories
func (c Category) DisplayName() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Story is a user-submitted item with a moderation status.
// AuthorEmail is only ever serialized on admin and owner views; public
// responses use PublicStory.
type Story struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	AuthorEmail string    `json:"author_email"`
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	Status      Status    `json:"status"`
	CreatedDate time.Time `json:"created_date"`
}

// PublicStory is the reader-facing projection of an approved story
type PublicStory struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	AuthorName  string    `json:"author_name"`
	Location    string    `json:"location,omitempty"`
	Category    Category  `json:"category"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedDate time.Time `json:"created_date"`
}

// Public strips the fields readers must never see
func (s Story) Public() PublicStory {
	return PublicStory{
		ID:          s.ID,
		Title:       s.Title,
		Content:     s.Content,
		AuthorName:  s.AuthorName,
		Location:    s.Location,
		Category:    s.Category,
		ImageURL:    s.ImageURL,
		CreatedDate: s.CreatedDate,
	}
}

// StoryInput is the submission payload. Status is accepted so that clients
// sending it do not fail to decode, but it is always overridden to pending.
type StoryInput struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Content     string   `json:"content" validate:"required,max=10000"`
	AuthorName  string   `json:"author_name" validate:"required,max=100"`
	AuthorEmail string   `json:"author_email" validate:"required,email"`
	Location    string   `json:"location" validate:"max=200"`
	Category    Category `json:"category" validate:"required,category"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	Status      Status   `json:"status,omitempty"`
}

// StoryPatch is the only mutation moderation is allowed to apply
type StoryPatch struct {
	Status Status `json:"status"`
}

// StoryFilter selects stories; zero fields match everything
type StoryFilter struct {
	Status      Status `json:"status,omitempty"`
	AuthorEmail string `json:"author_email,omitempty"`
}

// Match reports whether s satisfies the filter
func (f StoryFilter) Match(s Story) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.AuthorEmail != "" && s.AuthorEmail != f.AuthorEmail {
		return false
	}
	return true
}

// SortNewestFirst is the default sort key, in the entity API's notation
const SortNewestFirst = "-created_date"
