package sanitizer

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"whitespace only", " \t\n ", ""},
		{"trim", "  team standup  ", "team standup"},
		{"collapse", "team\t\tstandup\n\nweekly", "team standup weekly"},
		{"control chars", "bad\x00input\x07here", "badinputhere"},
		{"zero width", "hello\u200bworld", "helloworld"},
		{"unicode", "  réunion   d'équipe ", "réunion d'équipe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := SanitizeText(got); again != got {
				t.Errorf("SanitizeText is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestSanitizeIdentifier(t *testing.T) {
	if got := SanitizeIdentifier("  Gym-A \n"); got != "Gym-A" {
		t.Errorf("SanitizeIdentifier() = %q", got)
	}
}

func TestSanitizeStatus(t *testing.T) {
	if got := SanitizeStatus(" approved "); got != "APPROVED" {
		t.Errorf("SanitizeStatus() = %q", got)
	}
}

func TestPipeline_AppliesInOrder(t *testing.T) {
	p := Pipeline{
		func(s string) string { return s + "a" },
		func(s string) string { return s + "b" },
	}
	if got := p.Apply("x"); got != "xab" {
		t.Errorf("Apply() = %q, want xab", got)
	}
}
