package domain

import (
	"fmt"
	"slices"
	"strconv"
	"time"
)

// Record is one denormalized row exchanged with a connector.
// All column values are strings.
type Record map[string]string

// Clone returns a copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Project returns a copy of r restricted to fields.
// An empty field list returns the whole record.
func (r Record) Project(fields []string) Record {
	if len(fields) == 0 {
		return r.Clone()
	}
	out := make(Record, len(fields))
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// Table names one of the relational tables that make up a committed solution.
type Table string

// Tables, in push order.
const (
	TableSolutionDescription     Table = "solution_description"
	TableSolutionParameterSet    Table = "solution_parameter_set"
	TableParameterSet            Table = "parameter_set"
	TableParameterSetDescription Table = "parameter_set_description"
	TableParameterDescription    Table = "parameter_description"
	TableParameterAttribute      Table = "parameter_attribute"
	TableAttributeValues         Table = "attribute_values"
)

// Column names shared across tables.
const (
	ColSolutionID              = "solution_id"
	ColSolutionName            = "solution_name"
	ColSolutionDescription     = "solution_description"
	ColDeploymentDate          = "deployment_date"
	ColDeprecationDate         = "deprecation_date"
	ColMaintainers             = "maintainers"
	ColParameterSetID          = "parameter_set_id"
	ColDeploymentStatus        = "deployment_status"
	ColInsertionDatetime       = "insertion_datetime"
	ColParameterID             = "parameter_id"
	ColParameterOrder          = "parameter_order"
	ColParameterSetName        = "parameter_set_name"
	ColParameterSetDescription = "parameter_set_description"
	ColParameterName           = "parameter_name"
	ColParameterDescription    = "parameter_description"
	ColFileName                = "file_name"
	ColFileType                = "file_type"
	ColAttributeID             = "attribute_id"
	ColPreviousAttributeID     = "previous_attribute_id"
	ColAttributeName           = "attribute_name"
	ColAttributeValue          = "attribute_value"
	ColAttributeValueType      = "attribute_value_type"
)

// Tables lists every table in the fixed order used when pushing.
// Parents precede children so a remote with foreign keys accepts the rows.
var Tables = []Table{
	TableSolutionDescription,
	TableSolutionParameterSet,
	TableParameterSet,
	TableParameterSetDescription,
	TableParameterDescription,
	TableParameterAttribute,
	TableAttributeValues,
}

var tableColumns = map[Table][]string{
	TableSolutionDescription: {
		ColSolutionID, ColSolutionName, ColSolutionDescription,
		ColDeploymentDate, ColDeprecationDate, ColMaintainers,
	},
	TableSolutionParameterSet: {
		ColSolutionID, ColParameterSetID, ColDeploymentStatus, ColInsertionDatetime,
	},
	TableParameterSet: {
		ColParameterSetID, ColParameterID, ColParameterOrder,
	},
	TableParameterSetDescription: {
		ColParameterSetID, ColParameterSetName, ColParameterSetDescription,
	},
	TableParameterDescription: {
		ColParameterID, ColParameterName, ColParameterDescription, ColFileName, ColFileType,
	},
	TableParameterAttribute: {
		ColParameterID, ColAttributeID, ColPreviousAttributeID,
	},
	TableAttributeValues: {
		ColAttributeID, ColAttributeName, ColAttributeValue, ColAttributeValueType,
	},
}

var tableKeys = map[Table][]string{
	TableSolutionDescription:     {ColSolutionID},
	TableSolutionParameterSet:    {ColSolutionID, ColParameterSetID},
	TableParameterSet:            {ColParameterSetID, ColParameterOrder},
	TableParameterSetDescription: {ColParameterSetID},
	TableParameterDescription:    {ColParameterID},
	TableParameterAttribute:      {ColParameterID, ColAttributeID},
	TableAttributeValues:         {ColAttributeID},
}

// IsValid returns true if the table is recognised.
func (t Table) IsValid() bool {
	_, ok := tableColumns[t]
	return ok
}

// Columns returns the table's columns in schema order.
func (t Table) Columns() []string {
	return slices.Clone(tableColumns[t])
}

// Key returns the columns that uniquely identify a row.
func (t Table) Key() []string {
	return slices.Clone(tableKeys[t])
}

// HasColumn reports whether the table has the named column.
func (t Table) HasColumn(col string) bool {
	return slices.Contains(tableColumns[t], col)
}

// RowKey returns the concatenated key values of r for table t.
func (t Table) RowKey(r Record) string {
	key := ""
	for i, col := range tableKeys[t] {
		if i > 0 {
			key += "\x00"
		}
		key += r[col]
	}
	return key
}

// String returns the string representation.
func (t Table) String() string {
	return string(t)
}

// Filter restricts rows by column value: a row matches when, for every
// filter column its table has, the row's value is one of the listed values.
type Filter map[string][]string

// AppliesTo reports whether at least one filter column exists in t.
func (f Filter) AppliesTo(t Table) bool {
	for col := range f {
		if t.HasColumn(col) {
			return true
		}
	}
	return false
}

// Match reports whether r, a row of t, satisfies the filter.
func (f Filter) Match(t Table, r Record) bool {
	for col, values := range f {
		if !t.HasColumn(col) {
			continue
		}
		if !slices.Contains(values, r[col]) {
			return false
		}
	}
	return true
}

// ==================== Record conversion ====================

// SolutionRecord renders a solution as a solution_description row.
func SolutionRecord(s Solution) Record {
	return Record{
		ColSolutionID:          s.ID,
		ColSolutionName:        s.Name,
		ColSolutionDescription: s.Description,
		ColDeploymentDate:      s.DeploymentDate,
		ColDeprecationDate:     s.DeprecationDate,
		ColMaintainers:         s.Maintainers,
	}
}

// SolutionFromRecord parses a solution_description row.
func SolutionFromRecord(r Record) Solution {
	return Solution{
		ID:              r[ColSolutionID],
		Name:            r[ColSolutionName],
		Description:     r[ColSolutionDescription],
		DeploymentDate:  r[ColDeploymentDate],
		DeprecationDate: r[ColDeprecationDate],
		Maintainers:     r[ColMaintainers],
	}
}

// LinkRecord renders a solution-parameter-set link as a row.
func LinkRecord(l SolutionParameterSet) Record {
	return Record{
		ColSolutionID:        l.SolutionID,
		ColParameterSetID:    l.ParameterSetID,
		ColDeploymentStatus:  l.Status.String(),
		ColInsertionDatetime: l.InsertedAt.UTC().Format(time.RFC3339Nano),
	}
}

// LinkFromRecord parses a solution_parameter_set row.
func LinkFromRecord(r Record) (SolutionParameterSet, error) {
	status := DeploymentStatus(r[ColDeploymentStatus])
	if !status.IsValid() {
		return SolutionParameterSet{}, fmt.Errorf("%w: deployment status %q", ErrInvalidInput, r[ColDeploymentStatus])
	}
	var inserted time.Time
	if v := r[ColInsertionDatetime]; v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return SolutionParameterSet{}, fmt.Errorf("%w: insertion datetime: %w", ErrInvalidInput, err)
		}
		inserted = t
	}
	return SolutionParameterSet{
		SolutionID:     r[ColSolutionID],
		ParameterSetID: r[ColParameterSetID],
		Status:         status,
		InsertedAt:     inserted,
	}, nil
}

// MembershipRecords renders the member rows of a parameter set.
func MembershipRecords(ps ParameterSet) []Record {
	rows := make([]Record, 0, len(ps.ParameterIDs))
	for i, id := range ps.ParameterIDs {
		rows = append(rows, Record{
			ColParameterSetID: ps.ID,
			ColParameterID:    id,
			ColParameterOrder: strconv.Itoa(i),
		})
	}
	return rows
}

// ParameterSetDescriptionRecord renders a parameter_set_description row.
func ParameterSetDescriptionRecord(ps ParameterSet) Record {
	return Record{
		ColParameterSetID:          ps.ID,
		ColParameterSetName:        ps.Name,
		ColParameterSetDescription: ps.Description,
	}
}

// ParameterRecord renders a parameter_description row.
func ParameterRecord(p Parameter) Record {
	return Record{
		ColParameterID:          p.ID,
		ColParameterName:        p.Name,
		ColParameterDescription: p.Description,
		ColFileName:             p.SourceFileName,
		ColFileType:             p.FileType.String(),
	}
}

// ParameterFromRecord parses a parameter_description row.
func ParameterFromRecord(r Record) Parameter {
	return Parameter{
		ID:             r[ColParameterID],
		Name:           r[ColParameterName],
		Description:    r[ColParameterDescription],
		SourceFileName: r[ColFileName],
		FileType:       FileType(r[ColFileType]),
	}
}

// AttributeRecord renders a parameter_attribute row.
func AttributeRecord(a ParameterAttribute) Record {
	return Record{
		ColParameterID:         a.ParameterID,
		ColAttributeID:         a.AttributeID,
		ColPreviousAttributeID: a.PreviousAttributeID,
	}
}

// AttributeFromRecord parses a parameter_attribute row.
func AttributeFromRecord(r Record) ParameterAttribute {
	return ParameterAttribute{
		ParameterID:         r[ColParameterID],
		AttributeID:         r[ColAttributeID],
		PreviousAttributeID: r[ColPreviousAttributeID],
	}
}

// ValueRecord renders an attribute_values row.
func ValueRecord(v AttributeValue) Record {
	return Record{
		ColAttributeID:        v.AttributeID,
		ColAttributeName:      v.Name,
		ColAttributeValue:     v.Value,
		ColAttributeValueType: string(v.Kind),
	}
}

// ValueFromRecord parses an attribute_values row.
func ValueFromRecord(r Record) AttributeValue {
	return AttributeValue{
		AttributeID: r[ColAttributeID],
		Name:        r[ColAttributeName],
		Value:       r[ColAttributeValue],
		Kind:        ValueKind(r[ColAttributeValueType]),
	}
}
