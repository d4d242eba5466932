package utils

import "testing"

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Inception", "inception"},
		{"  Amélie  ", "amelie"},
		{"AMELIE", "amelie"},
		{"Straße", "strasse"},
		{"La  Casa\tde Papel", "la casa de papel"},
		{"Pokémon", "pokemon"},
	}

	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
