package browse

import (
	"strings"

	"github.com/bilgisen/peacenet/internal/models"
)

// CategoryAll disables the category filter
const CategoryAll = "all"

// Search filters stories by a case-insensitive substring of title, content
// or author name, and by exact category. An empty query matches everything
// and "all" (or "") matches every category. Input order is preserved.
func Search(stories []models.PublicStory, query, category string) []models.PublicStory {
	q := strings.ToLower(query)

	out := make([]models.PublicStory, 0, len(stories))
	for _, s := range stories {
		if category != "" && category != CategoryAll && string(s.Category) != category {
			continue
		}
		if q != "" &&
			!strings.Contains(strings.ToLower(s.Title), q) &&
			!strings.Contains(strings.ToLower(s.Content), q) &&
			!strings.Contains(strings.ToLower(s.AuthorName), q) {
			continue
		}
		out = append(out, s)
	}
	return out
}
