package engine

import "sort"

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never mutates loaded data. It reads through this interface.
//
// Implementations:
//   Dataset  the immutable normalized snapshot
//   SubView  filtered subset as indices into the parent
// ============================================================================

// RecordView provides indexed, read-only access to applicant records.
type RecordView interface {
	Len() int
	Record(index int) ApplicantRecord
}

// ============================================================================
// DATASET — immutable normalized snapshot
// ============================================================================

// Dataset is the cleaned record set produced by Normalize.
// It owns a private copy of its records; callers cannot mutate it.
type Dataset struct {
	records []ApplicantRecord
	source  string
	dropped int
}

// NewDataset copies records into a new Dataset.
func NewDataset(source string, records []ApplicantRecord, dropped int) *Dataset {
	cp := make([]ApplicantRecord, len(records))
	copy(cp, records)
	return &Dataset{records: cp, source: source, dropped: dropped}
}

// Len and Record treat a nil *Dataset as empty.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

func (d *Dataset) Record(i int) ApplicantRecord {
	if d == nil || i < 0 || i >= len(d.records) {
		return ApplicantRecord{}
	}
	return d.records[i]
}

// Source names where the snapshot was loaded from.
func (d *Dataset) Source() string { return d.source }

// Dropped is the number of raw rows excluded for lacking a program choice.
func (d *Dataset) Dropped() int { return d.dropped }

// Records returns a copy of the underlying records.
func (d *Dataset) Records() []ApplicantRecord {
	if d == nil {
		return nil
	}
	cp := make([]ApplicantRecord, len(d.records))
	copy(cp, d.records)
	return cp
}

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Records are read through the parent; nothing is copied.
type SubView struct {
	parent  RecordView
	indices []int
}

func newSubView(parent RecordView, indices []int) RecordView {
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Record(i int) ApplicantRecord {
	if i < 0 || i >= len(v.indices) {
		return ApplicantRecord{}
	}
	return v.parent.Record(v.indices[i])
}

// ============================================================================
// VIEW HELPERS
// ============================================================================

// DistinctValues returns the sorted, non-empty distinct values of a dimension.
func DistinctValues(view RecordView, d Dimension) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := view.Record(i).Field(d)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	sort.Strings(result)
	return result
}
