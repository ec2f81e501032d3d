package domain

import (
	"slices"
	"sort"
	"strconv"
)

// StagedSolution is the Commit Staging Store entry for one solution:
// fully denormalized rows, indexed by table and then by parameter set id.
type StagedSolution struct {
	SolutionID string
	Tables     map[Table]map[string][]Record
}

// NewStagedSolution returns an empty entry with every table allocated.
func NewStagedSolution(solutionID string) *StagedSolution {
	s := &StagedSolution{
		SolutionID: solutionID,
		Tables:     make(map[Table]map[string][]Record, len(Tables)),
	}
	for _, t := range Tables {
		s.Tables[t] = make(map[string][]Record)
	}
	return s
}

// Add appends rows of table t owned by parameter set setID.
// Adding no rows leaves the entry unchanged.
func (s *StagedSolution) Add(t Table, setID string, rows ...Record) {
	if len(rows) == 0 {
		return
	}
	if s.Tables[t] == nil {
		s.Tables[t] = make(map[string][]Record)
	}
	s.Tables[t][setID] = append(s.Tables[t][setID], rows...)
}

// Rows returns the rows of table t owned by setID.
func (s *StagedSolution) Rows(t Table, setID string) []Record {
	return s.Tables[t][setID]
}

// ParameterSetIDs returns every parameter set id present, sorted.
func (s *StagedSolution) ParameterSetIDs() []string {
	seen := make(map[string]struct{})
	for _, bySet := range s.Tables {
		for id := range bySet {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasParameterSet reports whether any table holds rows for setID.
func (s *StagedSolution) HasParameterSet(setID string) bool {
	for _, bySet := range s.Tables {
		if _, ok := bySet[setID]; ok {
			return true
		}
	}
	return false
}

// Flatten concatenates the rows of table t for the given sets, in set order.
func (s *StagedSolution) Flatten(t Table, setIDs []string) []Record {
	var out []Record
	for _, id := range setIDs {
		out = append(out, s.Tables[t][id]...)
	}
	return out
}

// MemberIDs returns the parameter ids of setID ordered by parameter_order.
func (s *StagedSolution) MemberIDs(setID string) []string {
	rows := slices.Clone(s.Tables[TableParameterSet][setID])
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := strconv.Atoi(rows[i][ColParameterOrder])
		b, _ := strconv.Atoi(rows[j][ColParameterOrder])
		return a < b
	})
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r[ColParameterID])
	}
	return ids
}

// Normalize sorts every row list by the table key and drops rows whose
// key repeats, so two entries holding the same rows compare equal
// regardless of fetch order.
func (s *StagedSolution) Normalize() {
	for t, bySet := range s.Tables {
		for id, rows := range bySet {
			bySet[id] = UniqueRows(t, rows)
		}
	}
}

// UniqueRows returns rows sorted by the key of t with repeated keys
// removed. The first row for a key wins.
func UniqueRows(t Table, rows []Record) []Record {
	sorted := slices.Clone(rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return t.RowKey(sorted[i]) < t.RowKey(sorted[j])
	})
	out := sorted[:0]
	for _, r := range sorted {
		if len(out) > 0 && t.RowKey(r) == t.RowKey(out[len(out)-1]) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// State is a snapshot of everything the engine holds in memory.
type State struct {
	Parameters    []ProcessedParameter
	ParameterSets []ParameterSet
	Solutions     []Solution
	Links         []SolutionParameterSet
	Staged        []StagedSolution
}
