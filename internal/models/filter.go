package models

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeKind is the outer sidebar filter class
type ScopeKind string

const (
	ScopeAll           ScopeKind = "all"
	ScopeToday         ScopeKind = "today"
	ScopeUncategorized ScopeKind = "uncategorized"
	ScopeUntagged      ScopeKind = "untagged"
	ScopeBookmark      ScopeKind = "bookmark"
	ScopeTrash         ScopeKind = "trash"
	ScopeCategory      ScopeKind = "category"
)

// Scope selects the browsing context. CategoryID is only read for
// ScopeCategory; nil there means "ideas without a category".
type Scope struct {
	CategoryID *int64    `json:"category_id,omitempty"`
	Kind       ScopeKind `json:"kind"`
}

// AllScope is the default context
func AllScope() Scope { return Scope{Kind: ScopeAll} }

// CategoryScope builds a category(id) scope
func CategoryScope(id *int64) Scope { return Scope{Kind: ScopeCategory, CategoryID: id} }

// String renders the scope the way ParseScope reads it
func (s Scope) String() string {
	if s.Kind == ScopeCategory && s.CategoryID != nil {
		return fmt.Sprintf("%s:%d", s.Kind, *s.CategoryID)
	}
	if s.Kind == "" {
		return string(ScopeAll)
	}
	return string(s.Kind)
}

// ParseScope reads "all", "trash", "category", "category:12" ...
func ParseScope(raw string) (Scope, error) {
	raw = strings.TrimSpace(strings.ToLower(raw))
	if raw == "" {
		return AllScope(), nil
	}

	kind, arg, hasArg := strings.Cut(raw, ":")
	switch ScopeKind(kind) {
	case ScopeAll, ScopeToday, ScopeUncategorized, ScopeUntagged, ScopeBookmark, ScopeTrash:
		if hasArg {
			return Scope{}, fmt.Errorf("scope %q takes no argument", kind)
		}
		return Scope{Kind: ScopeKind(kind)}, nil
	case ScopeCategory:
		if !hasArg || arg == "" {
			return CategoryScope(nil), nil
		}
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil {
			return Scope{}, fmt.Errorf("invalid category id %q: %w", arg, err)
		}
		return CategoryScope(&id), nil
	default:
		return Scope{}, fmt.Errorf("unknown scope: %s", kind)
	}
}

// DateOption is a created-at bucket
type DateOption string

const (
	DateToday     DateOption = "today"
	DateYesterday DateOption = "yesterday"
	DateWeek      DateOption = "week"
	DateMonth     DateOption = "month"
)

// DateOptions lists buckets in display order
var DateOptions = []DateOption{DateToday, DateYesterday, DateWeek, DateMonth}

// Criteria are the inner multi-select filters. Empty lists are ignored.
type Criteria struct {
	Stars      []int        `json:"stars,omitempty"`
	Colors     []string     `json:"colors,omitempty"`
	Types      []string     `json:"types,omitempty"`
	Tags       []string     `json:"tags,omitempty"`
	DateCreate []DateOption `json:"date_create,omitempty"`
}

// FilterRequest is the structured query the filter compiler translates
type FilterRequest struct {
	Criteria  *Criteria `json:"criteria,omitempty"`
	Search    string    `json:"search,omitempty"`
	TagFilter string    `json:"tag_filter,omitempty"` // TagFilter один тег из боковой панели
	Scope     Scope     `json:"scope"`
	Page      int       `json:"page,omitempty"`      // Page с единицы
	PageSize  int       `json:"page_size,omitempty"` // PageSize 0 = без пагинации
}

// Statistics are the live counts shown next to filter checkboxes
type Statistics struct {
	Stars      map[int]int        `json:"stars"`
	Colors     map[string]int     `json:"colors"`
	Types      map[string]int     `json:"types"`
	DateCreate map[DateOption]int `json:"date_create"`
	Tags       []TagCount         `json:"tags"`
}

// NewStatistics returns zero-valued histograms with every date bucket present
func NewStatistics() *Statistics {
	st := &Statistics{
		Stars:      make(map[int]int),
		Colors:     make(map[string]int),
		Types:      make(map[string]int),
		DateCreate: make(map[DateOption]int, len(DateOptions)),
		Tags:       []TagCount{},
	}
	for _, o := range DateOptions {
		st.DateCreate[o] = 0
	}
	return st
}
