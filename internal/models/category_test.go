package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"movies", Movies},
		{"movie", Movies},
		{"Movie", Movies},
		{"  BOOKS ", Books},
		{"book", Books},
		{"album", Albums},
		{"Albums", Albums},
		{"widget", Category("widgets")},
		{"", Category("")},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseCategory(tt.raw))
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		assert.True(t, c.Valid(), c)
	}
	assert.False(t, ParseCategory("widgets").Valid())
	assert.False(t, Category("").Valid())
	assert.False(t, Category("Movies").Valid(), "stored categories are lowercase")
}

func TestCategorySingular(t *testing.T) {
	assert.Equal(t, "movie", Movies.Singular())
	assert.Equal(t, "book", Books.Singular())
	assert.Equal(t, "album", Albums.Singular())
}

func TestCategoriesIsACopy(t *testing.T) {
	cs := Categories()
	cs[0] = "widgets"
	assert.Equal(t, Albums, Categories()[0])
}

func TestWorkOwnedBy(t *testing.T) {
	owner := &User{ID: 1, Username: "ada"}
	other := &User{ID: 2, Username: "grace"}
	work := &Work{ID: 7, UserID: owner.ID}

	assert.True(t, work.OwnedBy(owner))
	assert.False(t, work.OwnedBy(other))
	assert.False(t, work.OwnedBy(nil))
	assert.False(t, (&Work{}).OwnedBy(&User{}), "zero ids never match")

	var missing *Work
	assert.False(t, missing.OwnedBy(owner))
}

func TestWorkInputApply(t *testing.T) {
	work := &Work{Title: "Dune", Creator: "Frank Herbert", Category: Books, PublicationYear: 1965}

	title := " Dune Messiah "
	WorkInput{Title: &title}.Apply(work)
	assert.Equal(t, "Dune Messiah", work.Title)
	assert.Equal(t, "Frank Herbert", work.Creator, "absent fields are kept")
	assert.Equal(t, 1965, work.PublicationYear)

	category := "Movie"
	WorkInput{Category: &category}.Apply(work)
	assert.Equal(t, Movies, work.Category)
}
