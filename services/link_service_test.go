package services

import (
	"strings"
	"testing"
)

func TestGenerateLinkKey(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := GenerateLinkKey()
		if len(key) != 11 {
			t.Fatalf("key %q has length %d, want 11", key, len(key))
		}
		if strings.Contains(key, "-") {
			t.Errorf("key %q contains a dash", key)
		}
		if seen[key] {
			t.Errorf("duplicate key generated: %q", key)
		}
		seen[key] = true
	}
}
