package provider

import (
	"errors"
	"fmt"
)

var (
	// ErrConstruction is matched by ConstructionError
	ErrConstruction = errors.New("invalid widget configuration")
	// ErrLoad is matched by LoadError
	ErrLoad = errors.New("load failed")
	// ErrRender is matched by RenderError
	ErrRender = errors.New("render failed")
	// ErrNoSaveURL is returned by Save when the widget has no save URL
	ErrNoSaveURL = errors.New("widget has no save url")
)

// ConstructionError is returned by New when required configuration is missing
type ConstructionError struct {
	Field  string
	Reason string
}

func (e *ConstructionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("datalist: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("datalist: missing %s", e.Field)
}

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstruction
}

// LoadError wraps a failure of one step of a load cycle
type LoadError struct {
	Op  string
	URL string
	Err error
}

func (e *LoadError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// RenderError is reported when the renderer fails for one record
type RenderError struct {
	Index int
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to render item %d: %v", e.Index, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}
