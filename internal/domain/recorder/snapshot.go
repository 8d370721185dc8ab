package recorder

import (
	"encoding/json"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"time"
)

// Snapshot is the flat field state of an entity at one point in time.
type Snapshot map[string]any

// Clone returns a shallow copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// FieldSet is a set of field names.
type FieldSet map[string]struct{}

// NewFieldSet builds a set from names.
func NewFieldSet(names ...string) FieldSet {
	set := make(FieldSet, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether name is in the set.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Change is one field-level delta between two snapshots.
type Change struct {
	Field string `json:"field"`
	Old   any    `json:"old"`
	New   any    `json:"new"`
}

// DetectChanges returns the fields whose values differ between before and
// after, ordered by field name. Excluded fields are never reported. A field
// missing from one side compares as nil.
func DetectChanges(before, after Snapshot, excluded FieldSet) []Change {
	names := make([]string, 0, len(after)+len(before))
	seen := make(map[string]struct{}, len(after)+len(before))
	for _, side := range []Snapshot{after, before} {
		for name := range side {
			if _, dup := seen[name]; dup || excluded.Has(name) {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var changes []Change
	for _, name := range names {
		oldValue, newValue := before[name], after[name]
		if looseEqual(oldValue, newValue) {
			continue
		}
		changes = append(changes, Change{Field: name, Old: oldValue, New: newValue})
	}
	return changes
}

// looseEqual compares scalar values by meaning rather than by Go type, so
// 5 and "5", "true" and true, "2024-01-02" and the matching time.Time, or
// nil and "" are equal.
func looseEqual(a, b any) bool {
	a, b = normalizeValue(a), normalizeValue(b)
	if isBlank(a) || isBlank(b) {
		return isBlank(a) && isBlank(b)
	}

	switch x := a.(type) {
	case number:
		switch y := b.(type) {
		case number:
			return x.equal(y)
		case bool:
			return x.nonZero() == y
		}
		return false
	case bool:
		switch y := b.(type) {
		case bool:
			return x == y
		case number:
			return x == y.nonZero()
		}
		return false
	case time.Time:
		y, ok := b.(time.Time)
		return ok && x.Equal(y)
	case string:
		y, ok := b.(string)
		return ok && x == y
	}
	return reflect.DeepEqual(a, b)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

// decimalPattern is the only string shape treated as numeric. Words such as
// "NaN" or "Inf" and exponent forms stay strings.
var decimalPattern = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// number is a normalized numeric value. exact is set for integers and
// decimal strings, which compare without float rounding.
type number struct {
	exact *big.Rat
	f     float64
}

func (n number) equal(o number) bool {
	if n.exact != nil && o.exact != nil {
		return n.exact.Cmp(o.exact) == 0
	}
	if math.IsNaN(n.f) && math.IsNaN(o.f) {
		return true
	}
	return n.f == o.f
}

func (n number) nonZero() bool {
	if n.exact != nil {
		return n.exact.Sign() != 0
	}
	return n.f != 0
}

func intNumber(i int64) number {
	return number{exact: new(big.Rat).SetInt64(i), f: float64(i)}
}

func floatNumber(f float64) number {
	n := number{f: f}
	// Integral floats are exact in binary and match their integer forms.
	if !math.IsNaN(f) && !math.IsInf(f, 0) && f == math.Trunc(f) {
		n.exact = new(big.Rat).SetFloat64(f)
	}
	return n
}

func decimalNumber(s string) (number, bool) {
	if !decimalPattern.MatchString(s) {
		return number{}, false
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return number{}, false
	}
	f, _ := r.Float64()
	return number{exact: r, f: f}, true
}

func normalizeValue(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case *string:
		if x == nil {
			return nil
		}
		return normalizeValue(*x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return *x
	case string:
		return normalizeString(x)
	case json.Number:
		return normalizeString(x.String())
	case time.Time:
		return x
	case bool:
		return x
	case int:
		return intNumber(int64(x))
	case int8:
		return intNumber(int64(x))
	case int16:
		return intNumber(int64(x))
	case int32:
		return intNumber(int64(x))
	case int64:
		return intNumber(x)
	case uint:
		return normalizeValue(uint64(x))
	case uint8:
		return intNumber(int64(x))
	case uint16:
		return intNumber(int64(x))
	case uint32:
		return intNumber(int64(x))
	case uint64:
		i := new(big.Int).SetUint64(x)
		return number{exact: new(big.Rat).SetInt(i), f: float64(x)}
	case float32:
		return floatNumber(float64(x))
	case float64:
		return floatNumber(x)
	}
	return v
}

func normalizeString(raw string) any {
	s := strings.TrimSpace(raw)
	if n, ok := decimalNumber(s); ok {
		return n
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	if t, ok := parseTime(s); ok {
		return t
	}
	return s
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int:
		return float64(x), true
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		n, ok := decimalNumber(strings.TrimSpace(x))
		return n.f, ok
	}
	return 0, false
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTime(s string) (time.Time, bool) {
	if len(s) < len("2006-01-02") {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case *time.Time:
		if x == nil {
			return time.Time{}, false
		}
		return *x, !x.IsZero()
	case string:
		return parseTime(strings.TrimSpace(x))
	}
	return time.Time{}, false
}
