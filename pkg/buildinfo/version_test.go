package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q: %s", want, s)
		}
	}
}

func TestCurrent(t *testing.T) {
	old := Version
	Version = "v9.9.9"
	defer func() { Version = old }()

	if got := Current().Version; got != "v9.9.9" {
		t.Errorf("Current().Version = %q", got)
	}
	if got := UserAgent(); got != "ownergraph/v9.9.9" {
		t.Errorf("UserAgent() = %q", got)
	}
}
