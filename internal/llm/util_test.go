package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain JSON untouched",
			input:    `{"summary": {"start": 0, "end": 2}}`,
			expected: `{"summary": {"start": 0, "end": 2}}`,
		},
		{
			name:     "json fence",
			input:    "```json\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "bare fence",
			input:    "```\n{\"a\": 1}\n```",
			expected: `{"a": 1}`,
		},
		{
			name:     "fence with surrounding whitespace",
			input:    "  ```json\n{\"a\": 1}\n```  ",
			expected: `{"a": 1}`,
		},
		{
			name:     "fenced content starting with brace on first line",
			input:    "```{\"a\": 1}```",
			expected: `{"a": 1}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestCompletionError(t *testing.T) {
	err := &CompletionError{Op: "generate", Message: "generation request failed", Cause: assert.AnError}

	assert.Contains(t, err.Error(), "generate")
	assert.Contains(t, err.Error(), "generation request failed")
	assert.Equal(t, assert.AnError, err.Unwrap())

	bare := &CompletionError{Op: "parse", Message: "empty response body"}
	assert.Contains(t, bare.Error(), "empty response body")
	assert.Nil(t, bare.Unwrap())
}
