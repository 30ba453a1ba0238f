package submission

import (
	"html"
	"strings"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/microcosm-cc/bluemonday"
)

// Normalizer strips markup and normalizes whitespace in submitted text
type Normalizer struct {
	policy *bluemonday.Policy
}

func NewNormalizer() *Normalizer {
	return &Normalizer{policy: bluemonday.StrictPolicy()}
}

// CleanLine removes HTML tags and collapses all whitespace to single spaces
func (n *Normalizer) CleanLine(input string) string {
	cleaned := html.UnescapeString(n.policy.Sanitize(input))
	return strings.Join(strings.Fields(cleaned), " ")
}

// CleanText removes HTML tags but keeps line breaks, trimming each line
func (n *Normalizer) CleanText(input string) string {
	cleaned := html.UnescapeString(n.policy.Sanitize(strings.ReplaceAll(input, "\r\n", "\n")))

	lines := strings.Split(cleaned, "\n")
	for i, line := range lines {
		lines[i] = strings.Join(strings.Fields(line), " ")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// NormalizeInput cleans every free-text field of a submission
func (n *Normalizer) NormalizeInput(in models.StoryInput) models.StoryInput {
	out := models.StoryInput{
		Title:       n.CleanLine(in.Title),
		Content:     n.CleanText(in.Content),
		AuthorName:  n.CleanLine(in.AuthorName),
		AuthorEmail: strings.TrimSpace(in.AuthorEmail),
		Location:    n.CleanLine(in.Location),
		Category:    models.Category(strings.ToLower(strings.TrimSpace(string(in.Category)))),
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Status:      in.Status,
	}
	if out.Category == "" {
		out.Category = models.DefaultCategory
	}
	return out
}
