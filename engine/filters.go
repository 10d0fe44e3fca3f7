package engine

import "strings"

// ============================================================================
// FILTERS — Categorical equality filters via RecordView
// ============================================================================
// Single-pass filter: checks ALL dimension constraints per record in one loop.
// Returns a SubView of indices into the parent.
// ============================================================================

// ValueMapping translates between the label a user picks and the value
// stored in the data. Values without an entry map to themselves.
type ValueMapping struct {
	toStored  map[string]string
	toDisplay map[string]string
}

// NewValueMapping builds a mapping from display label → stored value pairs.
func NewValueMapping(displayToStored map[string]string) ValueMapping {
	m := ValueMapping{
		toStored:  make(map[string]string, len(displayToStored)),
		toDisplay: make(map[string]string, len(displayToStored)),
	}
	for display, stored := range displayToStored {
		m.toStored[display] = stored
		m.toDisplay[stored] = display
	}
	return m
}

// Stored returns the stored value for a display label.
func (m ValueMapping) Stored(display string) string {
	if v, ok := m.toStored[display]; ok {
		return v
	}
	return display
}

// Display returns the display label for a stored value.
func (m ValueMapping) Display(stored string) string {
	if v, ok := m.toDisplay[stored]; ok {
		return v
	}
	return stored
}

// Mappings holds one ValueMapping per dimension.
type Mappings map[Dimension]ValueMapping

// DefaultMappings shows "Bidik Misi" funding as "Bidikmisi".
func DefaultMappings() Mappings {
	return Mappings{
		DimFunding: NewValueMapping(map[string]string{"Bidikmisi": DefaultFundedValue}),
	}
}

// Stored resolves a filter value for dimension d.
func (m Mappings) Stored(d Dimension, value string) string {
	if vm, ok := m[d]; ok {
		return vm.Stored(value)
	}
	return value
}

// Display resolves a stored value to its label for dimension d.
func (m Mappings) Display(d Dimension, value string) string {
	if vm, ok := m[d]; ok {
		return vm.Display(value)
	}
	return value
}

// ApplyFilters returns a view of records matching every active criterion.
// Empty criteria returns the original view. Relative order is preserved.
func ApplyFilters(view RecordView, criteria FilterCriteria, mappings Mappings) RecordView {
	active := criteria.Active()
	if len(active) == 0 {
		return view
	}

	type constraint struct {
		dim   Dimension
		value string
	}
	constraints := make([]constraint, 0, len(active))
	for dim, val := range active {
		constraints = append(constraints, constraint{dim: dim, value: strings.TrimSpace(mappings.Stored(dim, val))})
	}

	// a record passes only if it matches every constraint
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		rec := view.Record(i)
		pass := true
		for _, c := range constraints {
			if rec.Field(c.dim) != c.value {
				pass = false
				break
			}
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}
