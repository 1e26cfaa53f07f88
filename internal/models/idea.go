package models

import (
	"time"

	"github.com/iudanet/ideacapsule/internal/validation"
)

// Item type discriminants. Any other lowercase token is a file extension
// produced by the clipboard classifier (e.g. "pdf").
const (
	ItemTypeText   = "text"
	ItemTypeImage  = "image"
	ItemTypeFolder = "folder"
	ItemTypeFile   = "file"
	ItemTypeFiles  = "files"
)

// Field names accepted by single-field updates
const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldItemType   = "item_type"
	FieldColor      = "color"
	FieldCategoryID = "category_id"
	FieldIsPinned   = "is_pinned"
	FieldIsFavorite = "is_favorite"
	FieldIsDeleted  = "is_deleted"
	FieldIsLocked   = "is_locked"
	FieldRating     = "rating"
)

var updatableFields = map[string]struct{}{
	FieldTitle: {}, FieldContent: {}, FieldItemType: {}, FieldColor: {}, FieldCategoryID: {},
	FieldIsPinned: {}, FieldIsFavorite: {}, FieldIsDeleted: {}, FieldIsLocked: {}, FieldRating: {},
}

// IsUpdatableField reports whether name is in the field allow-list
func IsUpdatableField(name string) bool {
	_, ok := updatableFields[name]
	return ok
}

// Rating bounds
const (
	MinRating = 0
	MaxRating = 5
)

// Idea представляет одну захваченную заметку или элемент буфера обмена.
type Idea struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CategoryID  *int64    `json:"category_id,omitempty"`            // CategoryID nil означает "без категории"
	Title       string    `json:"title" validate:"notblank"`        // Title непустой заголовок
	Content     string    `json:"content"`                          // Content может быть пустым
	ItemType    string    `json:"item_type" validate:"required,lowercase"`
	ContentHash string    `json:"content_hash" validate:"omitempty,hexadecimal"`
	Color       string    `json:"color" validate:"required,hexcolor"`
	Tags        []string  `json:"tags"`
	DataBlob    []byte    `json:"-"` // DataBlob PNG байты, только для image
	ID          int64     `json:"id"`
	Rating      int       `json:"rating" validate:"min=0,max=5"`
	IsPinned    bool      `json:"is_pinned"`
	IsFavorite  bool      `json:"is_favorite"`
	IsLocked    bool      `json:"is_locked"`
	IsDeleted   bool      `json:"is_deleted"`
}

// Validate checks field invariants. A blob is only allowed on image ideas;
// whether an image carries one is checked on insert, since reads may skip it.
func (i *Idea) Validate() error {
	if err := validation.Struct(i); err != nil {
		return err
	}
	if len(i.DataBlob) > 0 && i.ItemType != ItemTypeImage {
		return validation.Fail("data_blob", "data_blob is only allowed for image items")
	}
	return nil
}

// IsFileLike reports whether the idea holds a path list
func (i *Idea) IsFileLike() bool {
	return IsFileLikeType(i.ItemType)
}

// IsFileLikeType reports whether an item type token is produced from a path list
func IsFileLikeType(itemType string) bool {
	return itemType != ItemTypeText && itemType != ItemTypeImage && itemType != ""
}

// IdeaState is the lightweight flag set the ingestion rules decide on
type IdeaState struct {
	CategoryID *int64
	ID         int64
	IsLocked   bool
	IsFavorite bool
	IsDeleted  bool
}

// IdeaMeta is the per-row record of the light retrieval tier
type IdeaMeta struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Title      string    `json:"title"`
	Color      string    `json:"color"`
	ItemType   string    `json:"item_type"`
	Tags       []string  `json:"tags"`
	ID         int64     `json:"id"`
	Rating     int       `json:"rating"`
	IsPinned   bool      `json:"is_pinned"`
	IsFavorite bool      `json:"is_favorite"`
	IsLocked   bool      `json:"is_locked"`
}

// IdeaPatch describes a bulk update of state columns. Nil fields are left alone.
type IdeaPatch struct {
	CategoryID  *int64
	Color       *string
	IsDeleted   *bool
	IsFavorite  *bool
	IsPinned    *bool
	Rating      *int
	SetCategory bool // SetCategory записывает CategoryID (nil -> NULL)
	Touch       bool // Touch обновляет updated_at
}

// Empty reports whether the patch would change nothing
func (p IdeaPatch) Empty() bool {
	return !p.SetCategory && p.Color == nil && p.IsDeleted == nil &&
		p.IsFavorite == nil && p.IsPinned == nil && p.Rating == nil && !p.Touch
}

// Page is one page of Find results
type Page struct {
	Items    []*Idea `json:"items"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Pages    int     `json:"pages"`
}

// Ptr returns a pointer to v. Handy for patches and optional ids.
func Ptr[T any](v T) *T {
	return &v
}
