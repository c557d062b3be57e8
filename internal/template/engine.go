// Package template provides template rendering functionality.
package template

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

//go:embed all:templates
var templatesFS embed.FS

// Engine provides template rendering capabilities.
type Engine struct {
	funcMap template.FuncMap
}

// NewEngine creates a new template engine.
func NewEngine() *Engine {
	return &Engine{
		funcMap: template.FuncMap{
			"upper":    strings.ToUpper,
			"lower":    strings.ToLower,
			"replace":  strings.ReplaceAll,
			"join":     strings.Join,
			"quote":    quote,
			"jsonList": jsonList,
			"sortKeys": sortKeys,
		},
	}
}

// Render renders a template string with the given data.
func (e *Engine) Render(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("template").Funcs(e.funcMap).Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

// RenderTemplate renders an embedded template file with the given data.
func (e *Engine) RenderTemplate(templatePath string, data interface{}) (string, error) {
	content, err := templatesFS.ReadFile("templates/" + templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template %s: %w", templatePath, err)
	}

	return e.Render(string(content), data)
}

// quote wraps a string in double quotes, escaping embedded quotes.
func quote(s string) string {
	return fmt.Sprintf("%q", s)
}

// jsonList renders a string slice as a JSON array literal, the form
// Dockerfile exec-form directives expect.
func jsonList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quote(item)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

// sortKeys returns the map's keys in sorted order for deterministic output.
func sortKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
