package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// PropertyFilter keeps experiments whose property value lies in [Min, Max].
type PropertyFilter struct {
	Property string  `json:"property"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Label renders the filter the way the explorer header shows it.
func (f PropertyFilter) Label() string {
	return fmt.Sprintf("%s: %.1f - %.1f", f.Property, f.Min, f.Max)
}

// String renders the filter in the "property:min:max" form accepted by ParseFilter.
func (f PropertyFilter) String() string {
	return f.Property + ":" + strconv.FormatFloat(f.Min, 'f', -1, 64) + ":" + strconv.FormatFloat(f.Max, 'f', -1, 64)
}

// ParseFilter parses "property:min:max". The property name may itself contain colons;
// the last two fields are the bounds.
func ParseFilter(s string) (PropertyFilter, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return PropertyFilter{}, fmt.Errorf("%w: %q is not property:min:max", ErrInvalidFilter, s)
	}

	n := len(parts)
	name := strings.TrimSpace(strings.Join(parts[:n-2], ":"))
	if name == "" {
		return PropertyFilter{}, fmt.Errorf("%w: %q has no property", ErrInvalidFilter, s)
	}

	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[n-2]), 64)
	if err != nil {
		return PropertyFilter{}, fmt.Errorf("%w: bad min in %q: %v", ErrInvalidFilter, s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[n-1]), 64)
	if err != nil {
		return PropertyFilter{}, fmt.Errorf("%w: bad max in %q: %v", ErrInvalidFilter, s, err)
	}
	if lo > hi {
		return PropertyFilter{}, fmt.Errorf("%w: min %g greater than max %g", ErrInvalidFilter, lo, hi)
	}

	return PropertyFilter{Property: name, Min: lo, Max: hi}, nil
}

// FilterSet holds at most one active filter per property.
// Setting a filter for a property that already has one replaces it.
type FilterSet struct {
	filters []PropertyFilter
}

// NewFilterSet builds a set from filters, later entries replacing earlier ones.
func NewFilterSet(filters ...PropertyFilter) *FilterSet {
	fs := &FilterSet{}
	for _, f := range filters {
		fs.Set(f)
	}
	return fs
}

// Set adds f, dropping any existing filter on the same property.
func (fs *FilterSet) Set(f PropertyFilter) {
	fs.Remove(f.Property)
	fs.filters = append(fs.filters, f)
}

// Remove drops the filter on property, if any.
func (fs *FilterSet) Remove(property string) {
	kept := fs.filters[:0]
	for _, f := range fs.filters {
		if f.Property != property {
			kept = append(kept, f)
		}
	}
	fs.filters = kept
}

// Get returns the active filter on property.
func (fs *FilterSet) Get(property string) (PropertyFilter, bool) {
	for _, f := range fs.filters {
		if f.Property == property {
			return f, true
		}
	}
	return PropertyFilter{}, false
}

// Clear removes every filter.
func (fs *FilterSet) Clear() {
	fs.filters = nil
}

// Len returns the number of active filters.
func (fs *FilterSet) Len() int {
	return len(fs.filters)
}

// List returns the active filters in the order they were last set.
func (fs *FilterSet) List() []PropertyFilter {
	return append([]PropertyFilter(nil), fs.filters...)
}
