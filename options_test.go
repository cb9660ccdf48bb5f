package fpcommits

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestResolve(t *testing.T) {
	valid := func(overrides map[string]any) map[string]any {
		raw := map[string]any{"userAgent": "test", "from": "test@example.com"}
		for k, v := range overrides {
			raw[k] = v
		}
		return raw
	}

	tests := []struct {
		name     string
		raw      map[string]any
		wantKind ErrorKind
	}{
		{"Defaults", valid(nil), 0},
		{"Repository String", valid(map[string]any{"repository": "garrysmod"}), 0},
		{"Repository Nil", valid(map[string]any{"repository": nil}), 0},
		{"Repository Number", valid(map[string]any{"repository": 7}), InvalidRepositoryType},
		{"Max String", valid(map[string]any{"max": "10"}), InvalidMaxType},
		{"Max Nil", valid(map[string]any{"max": nil}), InvalidMaxType},
		{"Max Fraction", valid(map[string]any{"max": 2.5}), InvalidMaxType},
		{"Max Whole Float", valid(map[string]any{"max": float64(5)}), 0},
		{"Max JSON Number", valid(map[string]any{"max": json.Number("20")}), 0},
		{"User Agent Missing", map[string]any{"from": "x"}, InvalidUserAgentType},
		{"User Agent Number", valid(map[string]any{"userAgent": 1}), InvalidUserAgentType},
		{"Max Zero", valid(map[string]any{"max": 0}), MaxBelowMinimum},
		{"Max Negative", valid(map[string]any{"max": -20}), MaxBelowMinimum},
		{"User Agent Empty", valid(map[string]any{"userAgent": ""}), EmptyUserAgent},
		{"From Missing", map[string]any{"userAgent": "test"}, InvalidFromType},
		{"From Number", valid(map[string]any{"from": 3}), InvalidFromType},
		{"From Empty", valid(map[string]any{"from": ""}), EmptyFrom},
		{"Type Checked Before Range", valid(map[string]any{"max": 0, "userAgent": 9}), InvalidUserAgentType},
		{"First Failure Wins", valid(map[string]any{"repository": 1, "max": "x"}), InvalidRepositoryType},
		{"Range Checked Before From Type", valid(map[string]any{"max": -1, "from": 4}), MaxBelowMinimum},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.raw)
			if tt.wantKind == 0 {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected %s, got nil", tt.wantKind)
			}
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("Expected %s, got %s", tt.wantKind, got)
			}
			if !errors.Is(err, tt.wantKind) {
				t.Errorf("errors.Is(%v, %s) is false", err, tt.wantKind)
			}
		})
	}
}

func TestResolveValues(t *testing.T) {
	opts, err := Resolve(map[string]any{
		"repository": "Garrys Mod",
		"max":        int64(250),
		"userAgent":  "test",
		"from":       "test@example.com",
	})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if opts.Repository == nil || *opts.Repository != "Garrys Mod" {
		t.Errorf("Expected repository 'Garrys Mod', got %v", opts.Repository)
	}
	if opts.Max == nil || *opts.Max != 250 {
		t.Errorf("Expected max 250, got %v", opts.Max)
	}
	if opts.UserAgent != "test" || opts.From != "test@example.com" {
		t.Errorf("Unexpected identity %q / %q", opts.UserAgent, opts.From)
	}

	opts, err = Resolve(map[string]any{"userAgent": "test", "from": "f"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if opts.Repository != nil {
		t.Errorf("Expected nil repository, got %q", *opts.Repository)
	}
	if *opts.Max != DefaultMax {
		t.Errorf("Expected default max %d, got %d", DefaultMax, *opts.Max)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		wantKind ErrorKind
	}{
		{"Valid Default Max", Options{UserAgent: "ua", From: "f"}, 0},
		{"Valid Max One", Options{Max: Int(1), UserAgent: "ua", From: "f"}, 0},
		{"Max Zero", Options{Max: Int(0), UserAgent: "ua", From: "f"}, MaxBelowMinimum},
		{"Max Negative", Options{Max: Int(-20), UserAgent: "ua", From: "f"}, MaxBelowMinimum},
		{"Empty User Agent", Options{From: "f"}, EmptyUserAgent},
		{"Empty From", Options{UserAgent: "ua"}, EmptyFrom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.Validate()
			if got := KindOf(err); got != tt.wantKind {
				t.Errorf("Expected kind %v, got %v (%v)", tt.wantKind, got, err)
			}
		})
	}
}

func TestErrorKindsDistinct(t *testing.T) {
	seen := make(map[string]ErrorKind)
	for k := InvalidRepositoryType; k <= Decode; k++ {
		name := k.String()
		if prev, ok := seen[name]; ok {
			t.Errorf("Kinds %d and %d share name %s", prev, k, name)
		}
		seen[name] = k
	}
	if ErrorKind(0).String() != "<INVALID>" {
		t.Errorf("Unexpected zero kind name %s", ErrorKind(0))
	}
}
