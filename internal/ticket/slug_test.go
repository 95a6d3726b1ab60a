package ticket

import "testing"

func TestDeriveSlug(t *testing.T) {
	tests := []struct {
		conference string
		fahrplanID string
		title      string
		want       string
	}{
		{"conf26", "7001", "Talk A", "conf26-7001-talk-a"},
		{"CONF26", "7001", "Überwachung, überall!", "conf26-7001-uberwachung-uberall"},
		{"", "7001", "Hello  World", "7001-hello-world"},
		{"conf26", "", "", "conf26"},
	}
	for _, tt := range tests {
		if got := DeriveSlug(tt.conference, tt.fahrplanID, tt.title); got != tt.want {
			t.Errorf("DeriveSlug(%q, %q, %q) = %q, want %q", tt.conference, tt.fahrplanID, tt.title, got, tt.want)
		}
	}
}

func TestParseUpdatePolicy(t *testing.T) {
	for input, want := range map[string]UpdatePolicy{"": UpdateDefault, "force": UpdateForce, "IGNORE": UpdateIgnore} {
		got, err := ParseUpdatePolicy(input)
		if err != nil || got != want {
			t.Errorf("ParseUpdatePolicy(%q) = %v, %v", input, got, err)
		}
	}
	if _, err := ParseUpdatePolicy("always"); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}
