package prompt

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"
)

// ErrInvalidTemplate is returned when a prompt template cannot be parsed or
// references a value that was not supplied.
var ErrInvalidTemplate = errors.New("invalid prompt template")

// DefaultSystemTemplate is the system prompt used when none is configured.
const DefaultSystemTemplate = `You are a helpful assistant for {{.company_name}}.

IMPORTANT RULES:
1. **Casual conversation & Persona** (greetings, closings like "bye" or "thank you", "how are you", your identity, basic company info):
   - Respond naturally like a helpful human assistant
   - Be warm, friendly, and highly conversational
   - Example (greeting): "I'm doing well, thank you! How can I assist you today?"
   - Example (closing): "You're very welcome! Have a great day!" or "Goodbye! Feel free to reach out if you need anything else."
   - Don't mention you're an AI unless specifically asked
   - Your name is MHK Nova, and you are a helpful AI assistant built for {{.company_name}}. (Answer questions like "who are you", "what is MHK Nova" using this info directly).
   - Mr. Rajesh is the CEO of the company. (Answer questions about the CEO using this info directly).

2. **Factual/informational questions (excluding persona info above)**: ONLY use the Context below.
   - No context or answer not found → "I don't have that information. Please ask about {{.company_name}}'s services or products."
   - Never use general knowledge or make assumptions

3. **When using Context**: Be clear, concise, and cite sources.

Context:
{{.context}}`

// DefaultUserTemplate is the user prompt used when none is configured.
const DefaultUserTemplate = `Question: {{.query}}

Please provide a helpful answer based on the context provided.`

// Templates holds the raw system and user prompt templates.
type Templates struct {
	System string
	User   string
}

// DefaultTemplates returns the built-in prompt templates
func DefaultTemplates() Templates {
	return Templates{
		System: DefaultSystemTemplate,
		User:   DefaultUserTemplate,
	}
}

// Formatter renders the system and user prompts from parsed templates.
// It is safe for concurrent use.
type Formatter struct {
	system *template.Template
	user   *template.Template
}

// NewFormatter parses the templates. Empty templates fall back to the defaults.
func NewFormatter(t Templates) (*Formatter, error) {
	if t.System == "" {
		t.System = DefaultSystemTemplate
	}
	if t.User == "" {
		t.User = DefaultUserTemplate
	}

	system, err := parse("system", t.System)
	if err != nil {
		return nil, err
	}
	user, err := parse("user", t.User)
	if err != nil {
		return nil, err
	}

	return &Formatter{system: system, user: user}, nil
}

// FormatSystemPrompt substitutes the company name and context into the system template
func (f *Formatter) FormatSystemPrompt(companyName, context string) (string, error) {
	return execute(f.system, map[string]any{
		"company_name": companyName,
		"context":      context,
	})
}

// FormatUserPrompt substitutes the query into the user template
func (f *Formatter) FormatUserPrompt(query string) (string, error) {
	return execute(f.user, map[string]any{
		"query": query,
	})
}

// Check renders both templates with placeholder values so a template that
// references unknown keys is caught at startup rather than on the first request.
func (f *Formatter) Check() error {
	if _, err := f.FormatSystemPrompt("company", NoContext); err != nil {
		return err
	}
	_, err := f.FormatUserPrompt("query")
	return err
}

func parse(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, name, err)
	}
	return tmpl, nil
}

func execute(tmpl *template.Template, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrInvalidTemplate, tmpl.Name(), err)
	}
	return buf.String(), nil
}
