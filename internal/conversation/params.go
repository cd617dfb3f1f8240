package conversation

import (
	"sort"
	"strings"
)

// Params is the per-session parameter set: slot values plus derived flags,
// accumulated across turns. Values merge left to right — a new non-empty,
// non-"unknown" value overwrites, anything else leaves the old value alone,
// so a filled slot is never cleared.
type Params map[string]string

// Clone returns a copy. Cloning nil yields an empty, usable set.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Merge folds updates into p under the override rule.
func (p Params) Merge(updates map[string]string) {
	for k, v := range updates {
		v = strings.TrimSpace(v)
		if v == "" || strings.EqualFold(v, "unknown") {
			continue
		}
		p[k] = v
	}
}

// Has reports whether the key holds a non-empty value.
func (p Params) Has(key string) bool {
	return strings.TrimSpace(p[key]) != ""
}

// Flag reports whether a boolean-valued parameter is set.
func (p Params) Flag(key string) bool {
	return p[key] == "true"
}

// describeKeys are the parameters summarized into a turn's description
// field, in display order.
var describeKeys = []string{ParamLoanType, SlotLocation, SlotIncome, SlotTimeline, ParamLoanAmount}

// Describe renders a short "key: value" summary of the known parameters.
func (p Params) Describe() string {
	var parts []string
	for _, k := range describeKeys {
		if p.Has(k) {
			parts = append(parts, k+": "+p[k])
		}
	}
	return strings.Join(parts, ", ")
}

// String renders all parameters deterministically, for prompt context.
func (p Params) String() string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("{")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(p[k])
	}
	b.WriteString("}")
	return b.String()
}
