// Package bookmarks persists named view locations.
package bookmarks

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/rebelice/datalist/internal/models"
)

// ErrNotFound is returned for an unknown bookmark id or name
var ErrNotFound = errors.New("bookmark not found")

// Manager manages bookmarks stored in a YAML file
type Manager struct {
	path      string
	bookmarks []models.Bookmark
}

// NewManager creates a new bookmark manager
func NewManager(configDir string) (*Manager, error) {
	path := filepath.Join(configDir, "bookmarks.yaml")

	m := &Manager{
		path:      path,
		bookmarks: []models.Bookmark{},
	}

	if _, err := os.Stat(path); err == nil {
		if err := m.Load(); err != nil {
			return nil, fmt.Errorf("failed to load bookmarks: %w", err)
		}
	}

	return m, nil
}

// Path returns the backing file
func (m *Manager) Path() string {
	return m.path
}

// Load loads bookmarks from the YAML file
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return fmt.Errorf("failed to read bookmarks file: %w", err)
	}

	var loaded []models.Bookmark
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return fmt.Errorf("failed to parse bookmarks: %w", err)
	}
	if loaded == nil {
		loaded = []models.Bookmark{}
	}
	m.bookmarks = loaded
	return nil
}

// Save writes bookmarks to the YAML file
func (m *Manager) Save() error {
	data, err := yaml.Marshal(m.bookmarks)
	if err != nil {
		return fmt.Errorf("failed to marshal bookmarks: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(m.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(m.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write bookmarks file: %w", err)
	}

	return nil
}

// Add bookmarks a location under a unique name
func (m *Manager) Add(name, description, location string, tags []string) (*models.Bookmark, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)

	if name == "" {
		return nil, fmt.Errorf("bookmark name cannot be empty")
	}
	if err := validLocation(location); err != nil {
		return nil, err
	}

	// names are case-insensitive
	for _, b := range m.bookmarks {
		if strings.EqualFold(b.Name, name) {
			return nil, fmt.Errorf("a bookmark with the name '%s' already exists", name)
		}
	}

	now := time.Now()
	bookmark := models.Bookmark{
		ID:          uuid.New().String(),
		Name:        name,
		Description: strings.TrimSpace(description),
		Location:    location,
		Tags:        tags,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	m.bookmarks = append(m.bookmarks, bookmark)

	if err := m.Save(); err != nil {
		return nil, fmt.Errorf("failed to save bookmark: %w", err)
	}

	return &bookmark, nil
}

// Update points an existing bookmark at a new location
func (m *Manager) Update(id, location string) error {
	location = strings.TrimSpace(location)
	if err := validLocation(location); err != nil {
		return err
	}

	for i, b := range m.bookmarks {
		if b.ID != id {
			continue
		}
		m.bookmarks[i].Location = location
		m.bookmarks[i].UpdatedAt = time.Now()
		if err := m.Save(); err != nil {
			return fmt.Errorf("failed to save bookmark: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Delete deletes a bookmark by id or name
func (m *Manager) Delete(ref string) error {
	i := m.index(ref)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	m.bookmarks = append(m.bookmarks[:i], m.bookmarks[i+1:]...)
	if err := m.Save(); err != nil {
		return fmt.Errorf("failed to save bookmarks after deletion: %w", err)
	}
	return nil
}

// Get returns a bookmark by id or name
func (m *Manager) Get(ref string) (*models.Bookmark, error) {
	i := m.index(ref)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	b := m.bookmarks[i]
	return &b, nil
}

// GetAll returns all bookmarks in insertion order
func (m *Manager) GetAll() []models.Bookmark {
	out := make([]models.Bookmark, len(m.bookmarks))
	copy(out, m.bookmarks)
	return out
}

// Search matches name, description and tags
func (m *Manager) Search(query string) []models.Bookmark {
	if query == "" {
		return m.GetAll()
	}

	query = strings.ToLower(query)
	var results []models.Bookmark

	for _, b := range m.bookmarks {
		if strings.Contains(strings.ToLower(b.Name), query) ||
			strings.Contains(strings.ToLower(b.Description), query) {
			results = append(results, b)
			continue
		}
		for _, tag := range b.Tags {
			if strings.Contains(strings.ToLower(tag), query) {
				results = append(results, b)
				break
			}
		}
	}

	return results
}

// RecordUsage updates usage statistics when a bookmark is opened
func (m *Manager) RecordUsage(id string) error {
	for i, b := range m.bookmarks {
		if b.ID != id {
			continue
		}
		m.bookmarks[i].UsageCount++
		m.bookmarks[i].LastUsed = time.Now()
		if err := m.Save(); err != nil {
			return fmt.Errorf("failed to save usage statistics: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, id)
}

// GetRecent returns the most recently used bookmarks
func (m *Manager) GetRecent(limit int) []models.Bookmark {
	sorted := m.GetAll()

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].LastUsed.After(sorted[j].LastUsed)
	})

	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}

	return sorted
}

func (m *Manager) index(ref string) int {
	for i, b := range m.bookmarks {
		if b.ID == ref {
			return i
		}
	}
	for i, b := range m.bookmarks {
		if strings.EqualFold(b.Name, ref) {
			return i
		}
	}
	return -1
}

func validLocation(location string) error {
	if location == "" {
		return fmt.Errorf("bookmark location cannot be empty")
	}
	u, err := url.Parse(location)
	if err != nil {
		return fmt.Errorf("invalid bookmark location: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("bookmark location must be an absolute URL: %s", location)
	}
	return nil
}
