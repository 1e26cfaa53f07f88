package clipboard

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/iudanet/ideacapsule/internal/models"
)

var (
	// ErrSelfCapture is returned for snapshots written by our own UI
	ErrSelfCapture = errors.New("clipboard written by self")

	// ErrNothingToCapture is returned when no variant carries a payload
	ErrNothingToCapture = errors.New("nothing to capture")

	// ErrUnclassifiable is returned when the payload could not be read or hashed
	ErrUnclassifiable = errors.New("unclassifiable clipboard payload")
)

// URLAutoTags are attached to captured web links
var URLAutoTags = []string{"网址", "链接"}

// Draft is a classified capture, ready for dedup and insert
type Draft struct {
	Title    string
	Content  string
	ItemType string
	Hash     string
	Blob     []byte
	AutoTags []string
}

// Classifier turns snapshots into drafts. Stat is replaceable for tests.
type Classifier struct {
	Stat func(name string) (fs.FileInfo, error)
}

// NewClassifier uses os.Stat to detect folders
func NewClassifier() *Classifier {
	return &Classifier{Stat: os.Stat}
}

// Classify picks the variant by priority: paths, then image, then text
func (c *Classifier) Classify(snap Snapshot) (*Draft, error) {
	if snap == nil {
		return nil, ErrNothingToCapture
	}
	if snap.OriginatedFromSelf() {
		return nil, ErrSelfCapture
	}

	switch {
	case snap.HasURLs() && len(snap.URLs()) > 0:
		return c.fromPaths(snap.URLs())
	case snap.HasImage():
		return fromImage(snap)
	case snap.HasText():
		return fromText(snap.Text())
	}

	return nil, ErrNothingToCapture
}

func (c *Classifier) fromPaths(raw []string) (*Draft, error) {
	paths := make([]string, 0, len(raw))
	for _, p := range raw {
		if p = localPath(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil, ErrNothingToCapture
	}

	itemType := c.pathType(paths)
	content := strings.Join(paths, ";")

	return &Draft{
		Title:    fmt.Sprintf(pathTitlePattern, itemType, BaseName(paths[0])),
		Content:  content,
		ItemType: itemType,
		Hash:     ContentHash(itemType, content, nil),
	}, nil
}

// pathType resolves folder / single extension / files / file
func (c *Classifier) pathType(paths []string) string {
	hasFolder := false
	files := 0
	exts := make(map[string]struct{})

	for _, p := range paths {
		// несуществующий путь считаем файлом
		if info, err := c.stat(p); err == nil && info.IsDir() {
			hasFolder = true
			continue
		}
		files++
		if ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(p), ".")); ext != "" {
			exts[ext] = struct{}{}
		}
	}

	switch {
	case hasFolder && files == 0:
		return models.ItemTypeFolder
	case len(exts) == 1:
		for ext := range exts {
			return ext
		}
	case len(exts) > 1:
		return models.ItemTypeFiles
	}
	return models.ItemTypeFile
}

func (c *Classifier) stat(p string) (fs.FileInfo, error) {
	if c.Stat == nil {
		return os.Stat(p)
	}
	return c.Stat(p)
}

// localPath accepts plain paths and file:// URLs
func localPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(strings.ToLower(raw), "file://") {
		if u, err := url.Parse(raw); err == nil && u.Path != "" {
			return u.Path
		}
	}
	return raw
}

func fromImage(snap Snapshot) (*Draft, error) {
	png, err := snap.ImagePNG()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image: %w", ErrUnclassifiable, err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnclassifiable)
	}

	return &Draft{
		Title:    ImageTitle,
		Content:  ImageContent,
		ItemType: models.ItemTypeImage,
		Hash:     ContentHash(models.ItemTypeImage, ImageContent, png),
		Blob:     png,
	}, nil
}

func fromText(text string) (*Draft, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrNothingToCapture
	}

	d := &Draft{
		Title:    TextTitle(text),
		Content:  text,
		ItemType: models.ItemTypeText,
		Hash:     ContentHash(models.ItemTypeText, text, nil),
	}

	if IsWebURL(trimmed) {
		d.AutoTags = append([]string(nil), URLAutoTags...)
	}

	return d, nil
}

// IsWebURL reports whether text starts with http:// or https://
func IsWebURL(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
