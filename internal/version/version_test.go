package version

import "testing"

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		date    string
		want    string
	}{
		{"dev build", "dev", "none", "unknown", "dev (development build)"},
		{"release", "v1.2.3", "abc1234", "2026-01-02", "v1.2.3 (commit: abc1234, built: 2026-01-02)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVersion(tt.version, tt.commit, tt.date); got != tt.want {
				t.Errorf("FormatVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetVersionDefaults(t *testing.T) {
	if got := GetVersion(); got != "dev (development build)" {
		t.Errorf("GetVersion() = %q", got)
	}

	v, c, d := GetVersionComponents()
	if v != "dev" || c != "none" || d != "unknown" {
		t.Errorf("unexpected components: %s %s %s", v, c, d)
	}
}
