package models

import (
	"strings"

	"github.com/iudanet/ideacapsule/internal/validation"
)

// Category is a node in the user's partition forest
type Category struct {
	ParentID   *int64      `json:"parent_id,omitempty"`
	Name       string      `json:"name" validate:"notblank"`
	Color      string      `json:"color" validate:"required,hexcolor"`
	PresetTags string      `json:"preset_tags"` // PresetTags теги через запятую
	Children   []*Category `json:"children,omitempty" validate:"-"`
	ID         int64       `json:"id"`
	SortOrder  int         `json:"sort_order"`
}

// Validate checks category invariants
func (c *Category) Validate() error {
	return validation.Struct(c)
}

// PresetTagList returns the parsed preset tags
func (c *Category) PresetTagList() []string {
	return SplitTags(c.PresetTags)
}

// DeleteMode controls what happens to child categories on delete
type DeleteMode int

const (
	// DeleteRefuse fails when the category still has children
	DeleteRefuse DeleteMode = iota
	// DeleteDetachChildren moves direct children to the root
	DeleteDetachChildren
	// DeleteSubtree removes the whole closure depth-first
	DeleteSubtree
)

// OrderUpdate re-parents and re-sorts one category
type OrderUpdate struct {
	ParentID  *int64 `json:"parent_id"`
	ID        int64  `json:"id"`
	SortOrder int    `json:"sort_order"`
}

// Tag is a globally unique label
type Tag struct {
	Name string `json:"name" validate:"notblank"`
	ID   int64  `json:"id"`
}

// TagCount is one row of the tag frequency list
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// NormalizeTags trims names, drops blanks and duplicates, keeps first-seen order
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// SplitTags parses a comma-joined tag list
func SplitTags(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	// Поддерживаем и полноширинную запятую из китайской раскладки
	csv = strings.ReplaceAll(csv, "，", ",")
	return NormalizeTags(strings.Split(csv, ","))
}

// JoinTags is the inverse of SplitTags
func JoinTags(names []string) string {
	return strings.Join(NormalizeTags(names), ",")
}
