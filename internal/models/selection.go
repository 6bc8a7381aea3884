package models

import (
	"sync"
	"time"
)

// Categories offered on the main screen. They all lead to the same flow.
var Categories = []string{"Insurance Papers", "Driver License", "Others"}

// Source records how the current image was chosen
type Source int

const (
	SourceNone Source = iota
	SourceCamera
	SourceGallery
)

func (s Source) String() string {
	switch s {
	case SourceCamera:
		return "camera"
	case SourceGallery:
		return "gallery"
	default:
		return "none"
	}
}

// Selection is the image currently under review or display. Whichever
// entry path ran last wins; it is never cleared.
type Selection struct {
	mu          sync.RWMutex
	capturePath string
	path        string
	source      Source
	category    string
	updatedAt   time.Time
}

func NewSelection(capturePath string) *Selection {
	return &Selection{capturePath: capturePath}
}

// Current returns the selected path, or the capture path if nothing has
// been selected yet.
func (s *Selection) Current() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.path == "" {
		return s.capturePath
	}
	return s.path
}

func (s *Selection) CapturePath() string {
	return s.capturePath
}

func (s *Selection) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path != ""
}

func (s *Selection) Source() Source {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

// SetCaptured points the selection at the capture file.
func (s *Selection) SetCaptured() {
	s.set(s.capturePath, SourceCamera)
}

// SetChosen points the selection at a file picked from the gallery.
func (s *Selection) SetChosen(path string) {
	s.set(path, SourceGallery)
}

func (s *Selection) set(path string, source Source) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.path = path
	s.source = source
	s.updatedAt = time.Now()
}

func (s *Selection) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

func (s *Selection) Category() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// Snapshot is a copy of the selection for logging
type Snapshot struct {
	Path      string
	Source    Source
	Category  string
	UpdatedAt time.Time
}

func (s *Selection) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path
	if path == "" {
		path = s.capturePath
	}
	return Snapshot{
		Path:      path,
		Source:    s.source,
		Category:  s.category,
		UpdatedAt: s.updatedAt,
	}
}

func (s Snapshot) Fields() map[string]interface{} {
	return map[string]interface{}{
		"path":     s.Path,
		"source":   s.Source.String(),
		"category": s.Category,
	}
}
