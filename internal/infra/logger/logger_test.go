package logger

import "testing"

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"john.doe@example.com", "joh***@example.com"},
		{"ab@example.com", "ab***@example.com"},
		{"no-at-sign", "***"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.input); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestMaskString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"secret123", "se***23"},
		{"abcd", "***"},
		{"ab", "***"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := MaskString(tc.input); got != tc.want {
			t.Errorf("MaskString(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
