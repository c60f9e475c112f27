package store

import "slices"

// Op is a comparison operator. Only equality is supported.
type Op int

const (
	OpEqual Op = iota
)

func (o Op) String() string {
	switch o {
	case OpEqual:
		return "="
	default:
		return "?"
	}
}

// Condition is one {field, operator, value} triple.
type Condition struct {
	Field string
	Op    Op
	Value any
}

// Predicate is a conjunction of conditions. The zero value matches every
// record. Predicates are immutable: And returns a new value.
type Predicate struct {
	conditions []Condition
}

// Where starts a predicate with a single equality condition.
func Where(field string, value any) Predicate {
	return Predicate{}.And(field, value)
}

// And adds an equality condition.
func (p Predicate) And(field string, value any) Predicate {
	return Predicate{conditions: append(slices.Clip(p.conditions), Condition{Field: field, Op: OpEqual, Value: value})}
}

// Conditions returns a copy of the conditions in insertion order.
func (p Predicate) Conditions() []Condition {
	return slices.Clone(p.conditions)
}

func (p Predicate) IsEmpty() bool {
	return len(p.conditions) == 0
}

// Has reports whether the predicate constrains field.
func (p Predicate) Has(field string) bool {
	for _, c := range p.conditions {
		if c.Field == field {
			return true
		}
	}
	return false
}
