package nexus

import "testing"

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"SkyrimSE", "skyrimspecialedition"},
		{"skyrimse", "skyrimspecialedition"},
		{"SkyrimSpecialEdition", "skyrimspecialedition"},
		{"Skyrim", "skyrim"},
		{"skyrimlegendaryedition", "skyrim"},
		{"Fallout4", "fallout4"},
		{"FalloutNewVegas", "falloutnv"},
		{"falloutnv", "falloutnv"},
		{"unknown_game", "unknown_game"},
		{"MorrowinD", "morrowind"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDomain(tt.input); got != tt.want {
				t.Errorf("NormalizeDomain(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// Normalizing an already-canonical slug must return it unchanged.
func TestNormalizeDomain_Idempotent(t *testing.T) {
	for _, input := range []string{"skyrimspecialedition", "skyrim", "fallout4", "falloutnv", "oblivion"} {
		once := NormalizeDomain(input)
		twice := NormalizeDomain(once)
		if once != twice {
			t.Errorf("NormalizeDomain not idempotent for %q: %q then %q", input, once, twice)
		}
		if once != input {
			t.Errorf("canonical slug %q changed to %q", input, once)
		}
	}
}
