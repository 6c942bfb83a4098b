package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEmptyOrOnlySpaces(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "empty", input: "", expected: true},
		{name: "single space", input: " ", expected: true},
		{name: "many spaces", input: "     ", expected: true},
		{name: "word", input: "komodo", expected: false},
		{name: "padded word", input: "  komodo  ", expected: false},
		{name: "tab", input: "\t", expected: false},
		{name: "newline", input: " \n ", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EmptyOrOnlySpaces(tt.input))
		})
	}
}

func TestRandomString(t *testing.T) {
	for _, length := range []int{0, 1, 16, 40, 200} {
		token := RandomString(length)

		assert.Len(t, token, length)
		for _, char := range token {
			assert.True(t, strings.ContainsRune(alphanumeric, char), "unexpected character %q", char)
		}
	}

	assert.Equal(t, "", RandomString(-1))
	assert.NotEqual(t, RandomString(32), RandomString(32))
}

func TestFlattenDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		expected map[string]any
	}{
		{
			name: "two levels",
			input: map[string]any{
				"config": map[string]any{"label": "yes", "enabled": true},
				"name":   "server",
			},
			expected: map[string]any{
				"config.label":   "yes",
				"config.enabled": true,
				"name":           "server",
			},
		},
		{
			name: "three levels keep inner document",
			input: map[string]any{
				"config": map[string]any{
					"label": "yes",
					"thing": map[string]any{"field1": "ok", "field2": "ok"},
				},
			},
			expected: map[string]any{
				"config.label": "yes",
				"config.thing": map[string]any{"field1": "ok", "field2": "ok"},
			},
		},
		{
			name: "bson ordered document",
			input: map[string]any{
				"config": bson.D{
					{Key: "timeout_seconds", Value: 5},
					{Key: "enabled", Value: true},
				},
				"name": "server",
			},
			expected: map[string]any{
				"config.timeout_seconds": 5,
				"config.enabled":         true,
				"name":                   "server",
			},
		},
		{
			name: "bson documents",
			input: map[string]any{
				"config": bson.M{"timeout_seconds": 5},
			},
			expected: map[string]any{
				"config.timeout_seconds": 5,
			},
		},
		{
			name:     "empty nested document disappears",
			input:    map[string]any{"config": map[string]any{}, "id": 1},
			expected: map[string]any{"id": 1},
		},
		{
			name:     "empty",
			input:    map[string]any{},
			expected: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FlattenDocument(tt.input))
		})
	}
}

func TestRepoLink(t *testing.T) {
	assert.Equal(t, "https://github.com/a/b/tree/main", RepoLink("github.com", "a/b", "main", true))
	assert.Equal(t, "http://github.com/a/b/tree/dev", RepoLink("github.com", "a/b", "dev", false))
	assert.Equal(t, "http://gitea.local/a/b", RepoLink("gitea.local", "a/b", "main", false))
	assert.Equal(t, "https://gitlab.com/a/b", RepoLink("gitlab.com", "a/b", "main", true))
}
