package models

import (
	"strings"

	"github.com/jinzhu/inflection"
)

// Category is the pluralized media type a Work belongs to.
type Category string

const (
	Albums Category = "albums"
	Books  Category = "books"
	Movies Category = "movies"
)

var categories = []Category{Albums, Books, Movies}

// Categories returns the recognized categories in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory normalizes a raw URL segment or stored value: trimmed,
// lowercased and pluralized. It never fails; use Valid to check the result.
func ParseCategory(raw string) Category {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	return Category(inflection.Plural(s))
}

func (c Category) Valid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Singular is used in user-facing messages ("Could not create movie").
func (c Category) Singular() string {
	return inflection.Singular(string(c))
}

func (c Category) String() string {
	return string(c)
}
