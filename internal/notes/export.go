package notes

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type frontmatter struct {
	ID       int64    `yaml:"id"`
	Title    string   `yaml:"title"`
	Subject  string   `yaml:"subject"`
	Tags     []string `yaml:"tags,flow"`
	Favorite bool     `yaml:"favorite"`
	Created  string   `yaml:"created,omitempty"`
	Updated  string   `yaml:"updated,omitempty"`
}

// Markdown renders n as a markdown document with YAML frontmatter.
func Markdown(n *Note) (string, error) {
	fm := frontmatter{
		ID:       n.ID,
		Title:    n.Title,
		Subject:  n.Subject,
		Tags:     n.Tags,
		Favorite: n.IsFavorite,
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	if !n.CreatedAt.IsZero() {
		fm.Created = n.CreatedAt.UTC().Format(time.RFC3339)
	}
	if !n.UpdatedAt.IsZero() {
		fm.Updated = n.UpdatedAt.UTC().Format(time.RFC3339)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return "", fmt.Errorf("encode frontmatter: %w", err)
	}
	enc.Close()
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	if !strings.HasSuffix(n.Content, "\n") {
		buf.WriteString("\n")
	}
	return buf.String(), nil
}

// Export writes n into dir as <slug>.md, suffixing -2, -3... when the name is taken.
// It returns the written path.
func Export(dir string, n *Note) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	doc, err := Markdown(n)
	if err != nil {
		return "", err
	}

	id := slugify(n.Title)
	if id == "" {
		id = fmt.Sprintf("note-%d", n.ID)
	}
	base := id
	for i := 2; ; i++ {
		path := filepath.Join(dir, id+".md")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}

	path := filepath.Join(dir, id+".md")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		return "", err
	}
	return path, nil
}

func slugify(title string) string {
	s := strings.ToLower(title)
	var out strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '/':
			out.WriteRune('-')
		}
	}
	result := strings.Trim(out.String(), "-")
	for strings.Contains(result, "--") {
		result = strings.ReplaceAll(result, "--", "-")
	}
	return result
}
