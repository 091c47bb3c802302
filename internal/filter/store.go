package filter

import (
	"errors"
	"fmt"
	"slices"

	"github.com/rebelice/datalist/internal/models"
)

// ErrDuplicateFilter is matched by DuplicateFilterError
var ErrDuplicateFilter = errors.New("duplicate filter")

// ErrCheckboxOrigin is returned when a checkbox filter is added explicitly
var ErrCheckboxOrigin = errors.New("checkbox filters are read from their controls and cannot be stored")

// DuplicateFilterError is returned when a filter with the same key and
// operator is already active
type DuplicateFilterError struct {
	Key      string
	Operator string
}

func (e *DuplicateFilterError) Error() string {
	return fmt.Sprintf("filter %s %s is already active", e.Key, e.Operator)
}

func (e *DuplicateFilterError) Is(target error) bool {
	return target == ErrDuplicateFilter
}

// Store holds the active filters of one data provider
type Store struct {
	filters    []*models.Filter
	checkboxes []Checkbox

	// OnAdded is called after a filter is added, unless events are suppressed
	OnAdded func(*models.Filter)
	// OnRemoved is called after a filter is removed
	OnRemoved func(*models.Filter)
}

// NewStore creates a filter store reading live filters from the given checkboxes
func NewStore(checkboxes ...Checkbox) *Store {
	return &Store{checkboxes: checkboxes}
}

// AddCheckbox registers another checkbox control
func (s *Store) AddCheckbox(c Checkbox) {
	s.checkboxes = append(s.checkboxes, c)
}

// Checkboxes returns the registered checkbox controls
func (s *Store) Checkboxes() []Checkbox {
	return slices.Clone(s.checkboxes)
}

// Add appends a filter. A filter whose key and operator are already active is
// rejected with a DuplicateFilterError and the store is left unchanged.
func (s *Store) Add(origin models.FilterOrigin, key, operator string, value *string, display string, suppressEvents bool) (*models.Filter, error) {
	if origin == models.OriginCheckbox {
		return nil, ErrCheckboxOrigin
	}
	if !origin.Valid() {
		return nil, fmt.Errorf("unknown filter origin %q", origin)
	}
	if key == "" {
		return nil, fmt.Errorf("filter key cannot be empty")
	}
	if s.Find(key, operator) != nil {
		return nil, &DuplicateFilterError{Key: key, Operator: operator}
	}

	if display == "" {
		display = DisplayString(key, operator, value)
	}

	f := &models.Filter{
		Origin:   origin,
		Key:      key,
		Operator: operator,
		Display:  display,
	}
	if value != nil {
		v := *value
		f.Value = &v
	}
	s.filters = append(s.filters, f)

	if !suppressEvents && s.OnAdded != nil {
		s.OnAdded(f)
	}
	return f, nil
}

// Remove removes a filter by identity
func (s *Store) Remove(f *models.Filter) bool {
	for i, existing := range s.filters {
		if existing != f {
			continue
		}
		s.filters = append(s.filters[:i], s.filters[i+1:]...)
		if s.OnRemoved != nil {
			s.OnRemoved(f)
		}
		return true
	}
	return false
}

// Find returns the stored filter with the given key and operator
func (s *Store) Find(key, operator string) *models.Filter {
	for _, f := range s.filters {
		if f.Key == key && f.Operator == operator {
			return f
		}
	}
	return nil
}

// Len returns the number of stored filters, checkbox filters excluded
func (s *Store) Len() int {
	return len(s.filters)
}

// Stored returns the stored filters in insertion order
func (s *Store) Stored() []*models.Filter {
	return slices.Clone(s.filters)
}

// Clear removes all stored filters without firing events
func (s *Store) Clear() {
	s.filters = nil
}

// Effective returns the stored filters followed by the filters of the
// checkbox controls as they are right now.
func (s *Store) Effective() []*models.Filter {
	out := slices.Clone(s.filters)
	for _, c := range s.checkboxes {
		rule := c.UncheckedRule()
		if c.Checked() {
			rule = c.CheckedRule()
		}
		if rule == nil {
			continue
		}
		out = append(out, &models.Filter{
			Origin:   models.OriginCheckbox,
			Key:      c.Name(),
			Operator: rule.Operator,
			Value:    rule.Value,
			Display:  DisplayString(c.Name(), rule.Operator, rule.Value),
		})
	}
	return out
}

// Params returns the wire form of the effective filters
func (s *Store) Params() []models.FilterParam {
	effective := s.Effective()
	params := make([]models.FilterParam, 0, len(effective))
	for _, f := range effective {
		params = append(params, f.Param())
	}
	return params
}

// Serialize returns the effective filters in their history form
func (s *Store) Serialize() []models.FilterParam {
	effective := s.Effective()
	params := make([]models.FilterParam, 0, len(effective))
	for _, f := range effective {
		p := f.Param()
		p.Display = f.Display
		p.Origin = f.Origin
		params = append(params, p)
	}
	return params
}

// Restore replaces the stored filters with the given params, with events
// suppressed, and reconciles the checkbox controls against them so a checkbox
// never contradicts the restored state. It returns the filters that were stored.
func (s *Store) Restore(params []models.FilterParam) ([]*models.Filter, error) {
	s.filters = nil

	var errs []error
	for _, p := range params {
		if s.isCheckboxParam(p) {
			continue
		}
		origin := p.Origin
		if origin == "" {
			origin = models.OriginManual
		}
		if _, err := s.Add(origin, p.Filter, p.Operator, p.Value, p.Display, true); err != nil {
			errs = append(errs, fmt.Errorf("restore filter %s %s: %w", p.Filter, p.Operator, err))
		}
	}

	for _, c := range s.checkboxes {
		c.SetChecked(checkedBy(c, params))
	}

	return s.Stored(), errors.Join(errs...)
}

func (s *Store) isCheckboxParam(p models.FilterParam) bool {
	if p.Origin == models.OriginCheckbox {
		return true
	}
	if p.Origin != "" {
		return false
	}
	// entries written without origins only match a checkbox on one of its rules
	for _, c := range s.checkboxes {
		if c.Name() == p.Filter && (ruleMatches(c.CheckedRule(), p) || ruleMatches(c.UncheckedRule(), p)) {
			return true
		}
	}
	return false
}

func checkedBy(c Checkbox, params []models.FilterParam) bool {
	rule := c.CheckedRule()
	for _, p := range params {
		if p.Origin != "" && p.Origin != models.OriginCheckbox {
			continue
		}
		if p.Filter == c.Name() && ruleMatches(rule, p) {
			return true
		}
	}
	return false
}

func ruleMatches(rule *Rule, p models.FilterParam) bool {
	if rule == nil || p.Operator != rule.Operator {
		return false
	}
	if p.Value == nil || rule.Value == nil {
		return p.Value == nil && rule.Value == nil
	}
	return *p.Value == *rule.Value
}

// DisplayString renders a filter for humans
func DisplayString(key, operator string, value *string) string {
	if value == nil {
		return fmt.Sprintf("%s %s", key, operator)
	}
	return fmt.Sprintf("%s %s %s", key, operator, *value)
}
