package domain

import (
	"reflect"
	"testing"
)

func TestPatternSet_Match(t *testing.T) {
	set, err := NewPatternSet(DefaultPatterns())
	if err != nil {
		t.Fatalf("NewPatternSet() error = %v", err)
	}

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "absolutely and perfect",
			body: "You're absolutely right! Perfect!",
			want: []string{"absolutely", "perfect"},
		},
		{
			name: "plain right",
			body: "You're right, that was the bug.",
			want: []string{"right"},
		},
		{
			name: "you are spelled out",
			body: "You are absolutely right about the cache.",
			want: []string{"absolutely"},
		},
		{
			name: "case insensitive",
			body: "you're ABSOLUTELY RIGHT",
			want: []string{"absolutely"},
		},
		{
			name: "repeated occurrences count once",
			body: "Perfect! Perfect! Perfect!",
			want: []string{"perfect"},
		},
		{
			name: "no match",
			body: "Let me look at the file.",
			want: nil,
		},
		{
			name: "empty body",
			body: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := set.Match(tt.body)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.body, got, tt.want)
			}
		})
	}
}

func TestPatternSet_MatchIsPerMessageNotPerOccurrence(t *testing.T) {
	set, err := NewPatternSet([]PatternRule{{Name: "perfect", Rule: `Perfect!`}})
	if err != nil {
		t.Fatalf("NewPatternSet() error = %v", err)
	}

	body := "Perfect! And again: Perfect! One more: Perfect!"
	got := set.Match(body)
	if len(got) != 1 || got[0] != "perfect" {
		t.Errorf("Match() = %v, want exactly one match for 'perfect'", got)
	}
}

func TestNewPatternSet_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules []PatternRule
	}{
		{name: "empty set", rules: nil},
		{name: "empty name", rules: []PatternRule{{Name: "", Rule: "x"}}},
		{
			name: "duplicate name",
			rules: []PatternRule{
				{Name: "a", Rule: "x"},
				{Name: "a", Rule: "y"},
			},
		},
		{name: "invalid regexp", rules: []PatternRule{{Name: "bad", Rule: "("}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewPatternSet(tt.rules); err == nil {
				t.Error("NewPatternSet() expected error, got nil")
			}
		})
	}
}

func TestPatternSet_NamesAndLead(t *testing.T) {
	set, err := NewPatternSet(DefaultPatterns())
	if err != nil {
		t.Fatalf("NewPatternSet() error = %v", err)
	}

	want := []string{"absolutely", "right", "perfect", "excellent"}
	if got := set.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if got := set.Lead(); got != "absolutely" {
		t.Errorf("Lead() = %q, want %q", got, "absolutely")
	}
}
