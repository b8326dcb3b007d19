package firestore

import (
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
)

// Operators accepted by field filters.
const (
	OpEqual              = "EQUAL"
	OpNotEqual           = "NOT_EQUAL"
	OpLessThan           = "LESS_THAN"
	OpLessThanOrEqual    = "LESS_THAN_OR_EQUAL"
	OpGreaterThan        = "GREATER_THAN"
	OpGreaterThanOrEqual = "GREATER_THAN_OR_EQUAL"
)

// Filter is a single field comparison. Values are always sent as strings.
type Filter struct {
	Field string
	Op    string
	Value string
}

// Eq builds an EQUAL filter.
func Eq(field, value string) Filter {
	return Filter{Field: field, Op: OpEqual, Value: value}
}

// Query selects documents of one collection.
type Query struct {
	Collection string
	Filters    []Filter
	Limit      int
}

// RunQueryRequest is the body of a documents:runQuery call.
type RunQueryRequest struct {
	StructuredQuery StructuredQuery `json:"structuredQuery"`
}

// StructuredQuery is the query language envelope.
type StructuredQuery struct {
	From  []CollectionSelector `json:"from"`
	Where *QueryFilter         `json:"where,omitempty"`
	Limit int                  `json:"limit,omitempty"`
}

// CollectionSelector names the collection to read.
type CollectionSelector struct {
	CollectionID string `json:"collectionId"`
}

// QueryFilter is either a single field filter or a composite of several.
type QueryFilter struct {
	FieldFilter     *FieldFilter     `json:"fieldFilter,omitempty"`
	CompositeFilter *CompositeFilter `json:"compositeFilter,omitempty"`
}

// FieldFilter compares one field against a value.
type FieldFilter struct {
	Field FieldReference `json:"field"`
	Op    string         `json:"op"`
	Value *wire.Value    `json:"value"`
}

// FieldReference names a field path.
type FieldReference struct {
	FieldPath string `json:"fieldPath"`
}

// CompositeFilter combines filters with a logical operator.
type CompositeFilter struct {
	Op      string        `json:"op"`
	Filters []QueryFilter `json:"filters"`
}

// BuildRunQuery translates q into a runQuery body. No filters reads the whole
// collection, one filter is sent as is, several are joined with AND.
func BuildRunQuery(q Query) RunQueryRequest {
	sq := StructuredQuery{
		From: []CollectionSelector{{CollectionID: q.Collection}},
	}
	if q.Limit > 0 {
		sq.Limit = q.Limit
	}

	switch len(q.Filters) {
	case 0:
	case 1:
		sq.Where = &QueryFilter{FieldFilter: fieldFilter(q.Filters[0])}
	default:
		conditions := make([]QueryFilter, len(q.Filters))
		for i, f := range q.Filters {
			conditions[i] = QueryFilter{FieldFilter: fieldFilter(f)}
		}
		sq.Where = &QueryFilter{CompositeFilter: &CompositeFilter{Op: "AND", Filters: conditions}}
	}

	return RunQueryRequest{StructuredQuery: sq}
}

func fieldFilter(f Filter) *FieldFilter {
	op := f.Op
	if op == "" {
		op = OpEqual
	}
	return &FieldFilter{
		Field: FieldReference{FieldPath: f.Field},
		Op:    op,
		Value: wire.String(f.Value),
	}
}
