package conv

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestToFloat64(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{float32(2), 2, true},
		{3, 3, true},
		{int64(4), 4, true},
		{" 5.25 ", 5.25, true},
		{json.Number("6.5"), 6.5, true},
		{true, 1, true},
		{"abc", 0, false},
		{nil, 0, false},
		{[]int{1}, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToFloat64(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ToFloat64(%#v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToInt64(t *testing.T) {
	tests := []struct {
		in   any
		want int64
		ok   bool
	}{
		{7, 7, true},
		{12.0, 12, true},
		{12.5, 0, false},
		{"42", 42, true},
		{"42.0", 42, true},
		{"4.2", 0, false},
		{json.Number("9"), 9, true},
		{"", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := ToInt64(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ToInt64(%#v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{"shoes", "shoes", true},
		{2024, "2024", true},
		{1.5, "1.5", true},
		{true, "true", true},
		{nil, "", false},
		{map[string]any{}, "", false},
	}
	for _, tt := range tests {
		got, ok := ToString(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ToString(%#v) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
