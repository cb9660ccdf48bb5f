package fpcommits

import (
	"encoding/json"
	"math"
)

// DefaultMax is the number of commits fetched when Options.Max is nil. It
// matches the size of one upstream page.
const DefaultMax = 100

// Options selects which commits to fetch.
type Options struct {
	// Repository limits the results to one repository; nil means every repository.
	Repository *string
	// Max is the total number of commits wanted across all pages; nil means DefaultMax.
	Max *int
	// UserAgent identifies the caller to the upstream service. Required.
	UserAgent string
	// From is sent as the From header with contact details. Required.
	From string
}

// String returns a pointer to s.
func String(s string) *string { return &s }

// Int returns a pointer to n.
func Int(n int) *int { return &n }

func (o Options) limit() int {
	if o.Max == nil {
		return DefaultMax
	}
	return *o.Max
}

func (o Options) repository() string {
	if o.Repository == nil {
		return ""
	}
	return *o.Repository
}

// Validate checks the value constraints of typed options. The first violated
// rule is reported.
func (o Options) Validate() error {
	if o.limit() < 1 {
		return &ValidationError{Kind: MaxBelowMinimum, Field: "max"}
	}
	if o.UserAgent == "" {
		return &ValidationError{Kind: EmptyUserAgent, Field: "userAgent"}
	}
	if o.From == "" {
		return &ValidationError{Kind: EmptyFrom, Field: "from"}
	}
	return nil
}

// Resolve builds Options from loosely typed input such as decoded JSON or
// YAML, keyed by "repository", "max", "userAgent" and "from". Missing keys
// take their defaults. Rules are checked in a fixed order and the first
// violation is returned.
func Resolve(raw map[string]any) (Options, error) {
	var opts Options

	if v, ok := raw["repository"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return Options{}, &ValidationError{Kind: InvalidRepositoryType, Field: "repository"}
		}
		opts.Repository = &s
	}

	limit := DefaultMax
	if v, ok := raw["max"]; ok {
		n, ok := toInt(v)
		if !ok {
			return Options{}, &ValidationError{Kind: InvalidMaxType, Field: "max"}
		}
		limit = n
	}
	opts.Max = &limit

	userAgent, ok := raw["userAgent"].(string)
	if !ok {
		return Options{}, &ValidationError{Kind: InvalidUserAgentType, Field: "userAgent"}
	}
	opts.UserAgent = userAgent

	if limit < 1 {
		return Options{}, &ValidationError{Kind: MaxBelowMinimum, Field: "max"}
	}
	if userAgent == "" {
		return Options{}, &ValidationError{Kind: EmptyUserAgent, Field: "userAgent"}
	}

	from, ok := raw["from"].(string)
	if !ok {
		return Options{}, &ValidationError{Kind: InvalidFromType, Field: "from"}
	}
	if from == "" {
		return Options{}, &ValidationError{Kind: EmptyFrom, Field: "from"}
	}
	opts.From = from

	return opts, nil
}

// toInt accepts any integer kind and floats without a fractional part.
func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return clampInt64(n), true
	case uint:
		return clampUint64(uint64(n)), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return clampUint64(uint64(n)), true
	case uint64:
		return clampUint64(n), true
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return clampInt64(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt {
		return math.MaxInt, true
	}
	if f < math.MinInt {
		return math.MinInt, true
	}
	return int(f), true
}

func clampInt64(n int64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}
