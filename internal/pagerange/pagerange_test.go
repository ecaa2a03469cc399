// pagerange_test.go — Unit tests for page range resolution.
//
// Go Pattern: Table-driven tests shine for parsers: each case is one
// input/output pair, and adding coverage for a new edge case is one line.
package pagerange

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		maxPages   int
		want       []int
	}{
		{
			name:       "simple interval",
			expression: "1-3",
			maxPages:   10,
			want:       []int{1, 2, 3},
		},
		{
			name:       "single page",
			expression: "5",
			maxPages:   10,
			want:       []int{5},
		},
		{
			name:       "mixed tokens with whitespace",
			expression: "1-2, 5, 8-10",
			maxPages:   10,
			want:       []int{1, 2, 5, 8, 9, 10},
		},
		{
			name:       "interval clamped to bounds",
			expression: "0-15",
			maxPages:   10,
			want:       []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
		},
		{
			name:       "empty expression",
			expression: "",
			maxPages:   10,
			want:       []int{},
		},
		{
			name:       "unparseable token dropped",
			expression: "abc",
			maxPages:   10,
			want:       []int{},
		},
		{
			name:       "token order does not matter",
			expression: "5,1-2",
			maxPages:   10,
			want:       []int{1, 2, 5},
		},
		{
			name:       "duplicates collapse",
			expression: "2,1-3,3",
			maxPages:   10,
			want:       []int{1, 2, 3},
		},
		{
			name:       "reversed interval yields nothing",
			expression: "7-3",
			maxPages:   10,
			want:       []int{},
		},
		{
			name:       "interval entirely out of bounds yields nothing",
			expression: "20-30",
			maxPages:   10,
			want:       []int{},
		},
		{
			name:       "single page out of bounds dropped",
			expression: "0, 11",
			maxPages:   10,
			want:       []int{},
		},
		{
			name:       "malformed interval dropped, valid tokens kept",
			expression: "1-2-3, 4, x-5",
			maxPages:   10,
			want:       []int{4},
		},
		{
			name:       "empty segments between commas ignored",
			expression: ",,3,,",
			maxPages:   10,
			want:       []int{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.expression, tt.maxPages)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q, %d) = %v, want %v", tt.expression, tt.maxPages, got, tt.want)
			}
		})
	}
}

// TestResolveBounds verifies the invariant: every resolved page lies
// within [1, maxPages], for a spread of messy inputs.
func TestResolveBounds(t *testing.T) {
	inputs := []string{
		"-5-5", "0-0", "1-1000000", "999", "3, -1, 4", "2-", "-", "1 - 3",
	}
	const maxPages = 25

	for _, expr := range inputs {
		for _, p := range Resolve(expr, maxPages) {
			if p < 1 || p > maxPages {
				t.Errorf("Resolve(%q, %d) produced out-of-bounds page %d", expr, maxPages, p)
			}
		}
	}
}

// TestResolveSortedUnique verifies output ordering and deduplication
// regardless of input token order.
func TestResolveSortedUnique(t *testing.T) {
	got := Resolve("9, 1, 5-7, 5, 2-3, 9", 10)
	want := []int{1, 2, 3, 5, 6, 7, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Resolve returned %v, want %v", got, want)
	}
}

// TestResolveIdempotent verifies repeated resolution of the same input
// yields identical results — Resolve holds no hidden state.
func TestResolveIdempotent(t *testing.T) {
	first := Resolve("1-2, 5, 8-10", 10)
	second := Resolve("1-2, 5, 8-10", 10)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve is not idempotent: %v != %v", first, second)
	}
}

func TestAll(t *testing.T) {
	tests := []struct {
		name     string
		maxPages int
		want     []int
	}{
		{"three pages", 3, []int{1, 2, 3}},
		{"single page", 1, []int{1}},
		{"zero pages", 0, []int{}},
		{"negative treated as empty", -4, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := All(tt.maxPages); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("All(%d) = %v, want %v", tt.maxPages, got, tt.want)
			}
		})
	}
}

func TestSelection(t *testing.T) {
	got := Selection([]int{1, 2, 10})
	want := []string{"1", "2", "10"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Selection = %v, want %v", got, want)
	}

	if got := Selection(nil); len(got) != 0 {
		t.Errorf("Selection(nil) = %v, want empty", got)
	}
}
