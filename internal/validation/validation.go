package validation

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Rules double as message IDs in pkg/locale.
const (
	Required    = "ValidationRequired"
	Invalid     = "ValidationInvalid"
	Positive    = "ValidationPositive"
	NonNegative = "ValidationNonNegative"
	OneOf       = "ValidationOneOf"
)

type Violation struct {
	Rule string
	Data map[string]any
}

// Violations maps a field to the first rule it broke.
type Violations map[string]Violation

func (v Violations) Empty() bool { return len(v) == 0 }

func (v Violations) Add(field, rule string, data map[string]any) {
	if _, ok := v[field]; ok {
		return
	}
	if data == nil {
		data = map[string]any{}
	}
	data["Field"] = field
	v[field] = Violation{Rule: rule, Data: data}
}

// Err returns v as an error, or nil when nothing was violated.
func (v Violations) Err() error {
	if v.Empty() {
		return nil
	}
	return v
}

func (v Violations) Fields() []string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, f := range v.Fields() {
		parts = append(parts, f+": "+ruleText(v[f].Rule))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func ruleText(rule string) string {
	switch rule {
	case Required:
		return "required"
	case Positive:
		return "must_be_positive"
	case NonNegative:
		return "must_not_be_negative"
	case OneOf:
		return "not_allowed"
	default:
		return "invalid"
	}
}

func RequiredString(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, Required, nil)
	}
}

func PositiveInt(field string, val int, v Violations) {
	if val <= 0 {
		v.Add(field, Positive, nil)
	}
}

func PositiveDecimal(field string, val decimal.Decimal, v Violations) {
	if !val.IsPositive() {
		v.Add(field, Positive, nil)
	}
}

func NonNegativeDecimal(field string, val decimal.Decimal, v Violations) {
	if val.IsNegative() {
		v.Add(field, NonNegative, nil)
	}
}

// Enum records a OneOf violation when ok is false. allowed is listed in the
// message.
func Enum[T ~string](field string, val T, ok bool, allowed []T, v Violations) {
	if ok {
		return
	}
	vals := make([]string, len(allowed))
	for i, a := range allowed {
		vals[i] = string(a)
	}
	v.Add(field, OneOf, map[string]any{"Values": strings.Join(vals, ", ")})
}
