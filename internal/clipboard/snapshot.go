// Package clipboard classifies clipboard snapshots into capture drafts.
package clipboard

//go:generate moq -out snapshot_mock.go . Snapshot

// Snapshot is the platform clipboard as seen by the UI shell
type Snapshot interface {
	HasURLs() bool
	URLs() []string
	HasImage() bool
	ImagePNG() ([]byte, error)
	HasText() bool
	Text() string
	// OriginatedFromSelf reports that our own UI wrote the clipboard
	OriginatedFromSelf() bool
}

// StaticSnapshot is an in-memory Snapshot, used by the CLI and the inbox watcher
type StaticSnapshot struct {
	Paths    []string
	Image    []byte
	Content  string
	FromSelf bool
}

var _ Snapshot = (*StaticSnapshot)(nil)

// TextSnapshot wraps plain text
func TextSnapshot(text string) *StaticSnapshot {
	return &StaticSnapshot{Content: text}
}

// PathsSnapshot wraps a file/folder path list
func PathsSnapshot(paths ...string) *StaticSnapshot {
	return &StaticSnapshot{Paths: paths}
}

// ImageSnapshot wraps PNG bytes
func ImageSnapshot(png []byte) *StaticSnapshot {
	return &StaticSnapshot{Image: png}
}

func (s *StaticSnapshot) HasURLs() bool             { return len(s.Paths) > 0 }
func (s *StaticSnapshot) URLs() []string            { return s.Paths }
func (s *StaticSnapshot) HasImage() bool            { return len(s.Image) > 0 }
func (s *StaticSnapshot) ImagePNG() ([]byte, error) { return s.Image, nil }
func (s *StaticSnapshot) HasText() bool             { return s.Content != "" }
func (s *StaticSnapshot) Text() string              { return s.Content }
func (s *StaticSnapshot) OriginatedFromSelf() bool  { return s.FromSelf }
