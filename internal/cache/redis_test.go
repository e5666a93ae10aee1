package cache

import (
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"test", "key", "with", "many", "parts"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}

	// Part boundaries matter: ["ab","c"] and ["a","bc"] must differ.
	if HashKey("ab", "c") == HashKey("a", "bc") {
		t.Error("HashKey() should distinguish part boundaries")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	cache := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "inkwell:test",
		},
		{
			name:     "key with colon",
			key:      "test:key",
			expected: "inkwell:test:key",
		},
		{
			name:     "empty key",
			key:      "",
			expected: "inkwell:",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := cache.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseViewKey(t *testing.T) {
	tests := []struct {
		name   string
		key    string
		wantID int64
		wantOK bool
	}{
		{name: "valid key", key: "inkwell:views:post:42", wantID: 42, wantOK: true},
		{name: "missing prefix", key: "views:post:42", wantOK: false},
		{name: "non-numeric id", key: "inkwell:views:post:abc", wantOK: false},
		{name: "unrelated key", key: "inkwell:settings", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := parseViewKey(tt.key)
			if ok != tt.wantOK || id != tt.wantID {
				t.Errorf("parseViewKey(%q) = (%d, %v), want (%d, %v)", tt.key, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}
