package model

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Category identifies the kind of activity a notification describes.
type Category string

const (
	CategoryLike    Category = "like"
	CategoryComment Category = "comment"
	CategoryFollow  Category = "follow"
	CategoryPost    Category = "post"
	CategoryMessage Category = "message"

	// CategoryOther is the display bucket for any value the client does not
	// recognize. It is never sent to the backend.
	CategoryOther Category = "other"
)

// Categories lists the recognized categories in display order.
var Categories = []Category{
	CategoryLike,
	CategoryComment,
	CategoryFollow,
	CategoryPost,
	CategoryMessage,
}

// Known reports whether c is one of the recognized categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// Bucket returns c for recognized categories and CategoryOther otherwise.
func (c Category) Bucket() Category {
	if c.Known() {
		return c
	}
	return CategoryOther
}

// Label returns the category with its first letter upper-cased.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// ParseCategory accepts one of the recognized category names.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Known() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// FilterSelector chooses which notifications are visible: either all of
// them or a single category.
type FilterSelector string

// FilterAll selects every notification.
const FilterAll FilterSelector = "all"

// FilterFor returns the selector matching a single category.
func FilterFor(c Category) FilterSelector {
	return FilterSelector(c)
}

// Selectors lists every valid selector in display order.
func Selectors() []FilterSelector {
	out := []FilterSelector{FilterAll}
	for _, c := range Categories {
		out = append(out, FilterFor(c))
	}
	return out
}

// ParseFilter accepts "all" or a recognized category name.
func ParseFilter(s string) (FilterSelector, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(FilterAll) {
		return FilterAll, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return "", fmt.Errorf("unknown filter %q", s)
	}
	return FilterFor(c), nil
}

// Label returns the button caption for the selector, e.g. "Likes".
func (f FilterSelector) Label() string {
	if f == FilterAll {
		return "All"
	}
	return Category(f).Label() + "s"
}
