package templates

import (
	"strings"
	"testing"
)

func TestGet_variableSubstitution(t *testing.T) {
	body := Get("concept", "Goroutines", "Go", "2024-01-15")
	for _, want := range []string{"Goroutines", "**Subject:** Go", "2024-01-15"} {
		if !strings.Contains(body, want) {
			t.Errorf("expected body to contain %q", want)
		}
	}
	for _, placeholder := range []string{"{{title}}", "{{subject}}", "{{date}}"} {
		if strings.Contains(body, placeholder) {
			t.Errorf("%s placeholder should have been replaced", placeholder)
		}
	}
}

func TestGet_allTemplatesNonEmpty(t *testing.T) {
	for _, name := range Names {
		if name == "blank" {
			continue
		}
		if Get(name, "Title", "Java", "2024-01-15") == "" {
			t.Errorf("template %q returned empty body", name)
		}
	}
}

func TestGet_blankAndUnknown(t *testing.T) {
	if body := Get("blank", "Title", "Java", "2024-01-15"); body != "" {
		t.Errorf("blank template should be empty, got %q", body)
	}
	if body := Get("nonexistent", "Title", "Java", "2024-01-15"); body != "" {
		t.Errorf("unknown template should fall back to blank, got %q", body)
	}
}

func TestGet_expectedSections(t *testing.T) {
	tests := map[string][]string{
		"concept":   {"## Definition", "## Example", "## Pitfalls"},
		"exercise":  {"## Problem", "## Solution", "## Complexity"},
		"review":    {"## Key points", "## Still unclear"},
		"interview": {"## Question", "## Follow-ups"},
	}
	for name, sections := range tests {
		body := Get(name, "T", "S", "D")
		for _, section := range sections {
			if !strings.Contains(body, section) {
				t.Errorf("%s template missing section %q", name, section)
			}
		}
	}
}

func TestNames_haveBodies(t *testing.T) {
	for _, name := range Names {
		if _, ok := bodies[name]; !ok {
			t.Errorf("Names lists %q but it has no body", name)
		}
	}
	if len(Names) != len(bodies) {
		t.Errorf("Names has %d entries, bodies has %d", len(Names), len(bodies))
	}
}
