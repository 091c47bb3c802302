package models

import "time"

// Bookmark is a saved view: a widget location including its encoded state
type Bookmark struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Location    string    `yaml:"location" json:"location"`
	Tags        []string  `yaml:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt   time.Time `yaml:"created_at" json:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at" json:"updated_at"`
	LastUsed    time.Time `yaml:"last_used,omitempty" json:"last_used,omitempty"`
	UsageCount  int       `yaml:"usage_count" json:"usage_count"`
}
