package command

import "testing"

func TestKebabCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Ping", "ping"},
		{"OneOrTwo", "one-or-two"},
		{"UserID", "user-id"},
		{"HTTPPort", "http-port"},
		{"D20", "d20"},
		{"getWordIndex", "get-word-index"},
		{"already_snake", "already-snake"},
		{"Value2Max", "value2-max"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := KebabCase(tt.in); got != tt.want {
				t.Errorf("KebabCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Gold", "Gold"},
		{"OneOrTwo", "One Or Two"},
		{"d20", "D20"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := TitleCase(tt.in); got != tt.want {
				t.Errorf("TitleCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
