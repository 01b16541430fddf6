package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "trim spaces",
			input: "  guest-42  ",
			want:  "guest-42",
		},
		{
			name:  "multiple spaces between words",
			input: "host    one",
			want:  "host one",
		},
		{
			name:  "tabs and newlines",
			input: "host\t\none",
			want:  "host one",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n  ",
			want:  "",
		},
		{
			name:  "preserve special characters",
			input: " Café & Spa™ ",
			want:  "Café & Spa™",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TrimAndNormalize(tt.input)
			if got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if again := TrimAndNormalize(got); again != got {
				t.Errorf("TrimAndNormalize is not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestCouponCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SAVE10", "SAVE10"},
		{"save10", "SAVE10"},
		{"  Summer_24 ", "SUMMER_24"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := CouponCode(tt.input); got != tt.want {
				t.Errorf("CouponCode(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestToken(t *testing.T) {
	if got := Token(" Host "); got != "host" {
		t.Errorf("Token() = %q, want %q", got, "host")
	}
	if got := ActorID("  guest 1 "); got != "guest 1" {
		t.Errorf("ActorID() = %q, want %q", got, "guest 1")
	}
}
