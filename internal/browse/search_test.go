package browse

import (
	"testing"

	"github.com/bilgisen/peacenet/internal/models"
	"github.com/stretchr/testify/assert"
)

func fixtures() []models.PublicStory {
	return []models.PublicStory{
		{ID: "1", Title: "Kind act", Content: "...", AuthorName: "Ana", Category: models.CategoryKindness},
		{ID: "2", Title: "Beach cleanup", Content: "We collected 40 bags of plastic", AuthorName: "Ben", Category: models.CategoryEnvironment},
		{ID: "3", Title: "Graduation", Content: "First in my family", AuthorName: "Kinda", Category: models.CategoryEducation},
	}
}

func ids(stories []models.PublicStory) []string {
	out := make([]string, 0, len(stories))
	for _, s := range stories {
		out = append(out, s.ID)
	}
	return out
}

func TestSearchEmptyQueryAllIsIdentity(t *testing.T) {
	in := fixtures()
	assert.Equal(t, in, Search(in, "", CategoryAll))
	assert.Equal(t, in, Search(in, "", ""))
	assert.Empty(t, Search(nil, "", CategoryAll))
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	one := []models.PublicStory{{Title: "Kind act", Content: "...", AuthorName: "Ana"}}

	assert.Len(t, Search(one, "kind", CategoryAll), 1)
	assert.Len(t, Search(one, "KIND", CategoryAll), 1)
	assert.Len(t, Search(one, "ana", CategoryAll), 1)
	assert.Empty(t, Search(one, "coffee", CategoryAll))
}

func TestSearchMatchesAnyField(t *testing.T) {
	in := fixtures()

	// "kind" is in the title of 1 and the author name of 3
	assert.Equal(t, []string{"1", "3"}, ids(Search(in, "kind", CategoryAll)))
	assert.Equal(t, []string{"2"}, ids(Search(in, "PLASTIC", CategoryAll)))
	assert.Equal(t, []string{"2"}, ids(Search(in, "ben", CategoryAll)))
}

func TestSearchCategoryIntersects(t *testing.T) {
	in := fixtures()

	assert.Equal(t, []string{"3"}, ids(Search(in, "kind", string(models.CategoryEducation))))
	assert.Equal(t, []string{"2"}, ids(Search(in, "", string(models.CategoryEnvironment))))
	assert.Empty(t, Search(in, "", string(models.CategoryHealth)))
}
