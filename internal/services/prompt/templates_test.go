package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultFormatter(t *testing.T) {
	f, err := NewFormatter(DefaultTemplates())
	require.NoError(t, err)
	require.NoError(t, f.Check())

	system, err := f.FormatSystemPrompt("Acme", "Document 1 (Source: a.md, Chunk: 0, Relevance: 0.900):\nfirst")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(system, "You are a helpful assistant for Acme."))
	assert.Contains(t, system, "built for Acme.")
	assert.True(t, strings.HasSuffix(system, "Context:\nDocument 1 (Source: a.md, Chunk: 0, Relevance: 0.900):\nfirst"))
	assert.NotContains(t, system, "{{")

	user, err := f.FormatUserPrompt("What do you build?")
	require.NoError(t, err)
	assert.Equal(t, "Question: What do you build?\n\nPlease provide a helpful answer based on the context provided.", user)
}

func TestCustomTemplates(t *testing.T) {
	f, err := NewFormatter(Templates{
		System: "{{.company_name}}|{{.context}}",
		User:   "Q={{.query}}",
	})
	require.NoError(t, err)

	system, err := f.FormatSystemPrompt("Acme", "ctx")
	require.NoError(t, err)
	assert.Equal(t, "Acme|ctx", system)

	user, err := f.FormatUserPrompt("why?")
	require.NoError(t, err)
	assert.Equal(t, "Q=why?", user)
}

func TestEmptyTemplatesUseDefaults(t *testing.T) {
	f, err := NewFormatter(Templates{})
	require.NoError(t, err)

	user, err := f.FormatUserPrompt("hi")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user, "Question: hi"))
}

func TestInvalidTemplates(t *testing.T) {
	tests := []struct {
		name      string
		templates Templates
		parseErr  bool
	}{
		{
			name:      "Unparseable system template",
			templates: Templates{System: "{{.company_name", User: "{{.query}}"},
			parseErr:  true,
		},
		{
			name:      "System template with unknown placeholder",
			templates: Templates{System: "{{.company_name}} {{.tagline}}", User: "{{.query}}"},
		},
		{
			name:      "User template with unknown placeholder",
			templates: Templates{System: "{{.context}}", User: "{{.question}}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFormatter(tt.templates)
			if tt.parseErr {
				assert.ErrorIs(t, err, ErrInvalidTemplate)
				return
			}
			require.NoError(t, err)
			assert.ErrorIs(t, f.Check(), ErrInvalidTemplate)
		})
	}
}
