// Package filter implements the boolean filter expressions evaluated
// against inventory instances. The expression tree is a closed sum type
// (And | Dimension | Tag) with exhaustive evaluation; there is no dynamic
// key dispatch.
package filter

import (
	"fleet-cost/core/types"
	"fleet-cost/internal/errors"
)

// Expr is a filter expression node. The type set is closed: And,
// Dimension, and Tag are the only implementations.
type Expr interface {
	// Matches reports whether the instance satisfies the expression
	Matches(inst types.Instance) bool

	sealed()
}

// And is true iff all children are true. An empty child list is vacuously
// true (no filter).
type And struct {
	Children []Expr
}

func (a And) sealed() {}

// Matches implements Expr
func (a And) Matches(inst types.Instance) bool {
	for _, c := range a.Children {
		if !c.Matches(inst) {
			return false
		}
	}
	return true
}

// Dimension matches an instance attribute against a value set.
//
// An unrecognized dimension key (USAGE_TYPE included) matches everything.
// The permissive fallback is kept for compatibility with hand-built trees;
// the NewDimension constructor refuses to build one.
type Dimension struct {
	Key    string
	Values []string
}

func (d Dimension) sealed() {}

// Matches implements Expr
func (d Dimension) Matches(inst types.Instance) bool {
	var actual string
	switch d.Key {
	case types.DimensionRegion:
		actual = inst.Region
	case types.DimensionInstanceType:
		actual = inst.Type
	case types.DimensionInstanceFamily:
		actual = inst.Family()
	default:
		return true
	}
	for _, v := range d.Values {
		if v == actual {
			return true
		}
	}
	return false
}

// Tag matches on an instance tag. With MatchAbsent set it is true iff the
// instance has no non-empty value for the key. With explicit Values it is
// true iff the instance's value is in the set. With neither, it is true
// iff the tag exists with a non-empty value.
type Tag struct {
	Key         string
	Values      []string
	MatchAbsent bool
}

func (t Tag) sealed() {}

// Matches implements Expr
func (t Tag) Matches(inst types.Instance) bool {
	value := inst.Tag(t.Key)
	if t.MatchAbsent {
		return value == ""
	}
	if len(t.Values) == 0 {
		return value != ""
	}
	if value == "" {
		return false
	}
	for _, v := range t.Values {
		if v == value {
			return true
		}
	}
	return false
}

// dimensionKeys are the keys NewDimension accepts. USAGE_TYPE is allowed
// because it carries the usage-type pre-filter for the component
// calculator even though it is permissive at instance level.
var dimensionKeys = map[string]bool{
	types.DimensionRegion:         true,
	types.DimensionInstanceType:   true,
	types.DimensionInstanceFamily: true,
	types.DimensionUsageType:      true,
}

// NewDimension builds a dimension filter, rejecting unknown keys outright.
// Unknown keys are a caller configuration error, not something to pass
// through silently.
func NewDimension(key string, values ...string) (Dimension, error) {
	if !dimensionKeys[key] {
		return Dimension{}, errors.Newf(errors.TypeFilter, "unsupported dimension key: %s", key)
	}
	return Dimension{Key: key, Values: values}, nil
}

// TagPresent matches instances carrying any non-empty value for the key
func TagPresent(key string) Tag {
	return Tag{Key: key}
}

// TagAbsent matches instances with no non-empty value for the key
func TagAbsent(key string) Tag {
	return Tag{Key: key, MatchAbsent: true}
}

// TagIn matches instances whose tag value is in the set
func TagIn(key string, values ...string) Tag {
	return Tag{Key: key, Values: values}
}

// AllOf conjoins expressions
func AllOf(children ...Expr) And {
	return And{Children: children}
}

// UsageTypes collects the USAGE_TYPE values a caller pre-filtered to, so
// the component calculator can skip generating unrequested components.
// Returns nil when the expression carries no usage-type restriction.
func UsageTypes(e Expr) map[string]bool {
	if e == nil {
		return nil
	}
	var set map[string]bool
	collectUsageTypes(e, &set)
	return set
}

func collectUsageTypes(e Expr, set *map[string]bool) {
	switch n := e.(type) {
	case And:
		for _, c := range n.Children {
			collectUsageTypes(c, set)
		}
	case Dimension:
		if n.Key == types.DimensionUsageType {
			if *set == nil {
				*set = make(map[string]bool)
			}
			for _, v := range n.Values {
				(*set)[v] = true
			}
		}
	case Tag:
	}
}
