// Package markdown reads and writes planning objects as markdown files
// with a YAML front-matter block.
//
// A planning file looks like:
//
//	---
//	id: T-implement-login
//	kind: task
//	title: Implement login
//	status: open
//	---
//
//	Markdown body.
package markdown

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/groveplan/grove/internal/object"
)

const delimiter = "---"

// ParseObject reads a planning file and decodes its front matter into
// an Object, keeping the markdown body. It fails when the front-matter
// block is missing, unterminated, or not valid YAML.
func ParseObject(path string) (*object.Object, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading object file: %w", err)
	}
	return Decode(data)
}

// Decode parses raw file content into an Object.
func Decode(data []byte) (*object.Object, error) {
	front, body, err := splitFrontMatter(string(data))
	if err != nil {
		return nil, err
	}

	var obj object.Object
	if err := yaml.Unmarshal([]byte(front), &obj); err != nil {
		return nil, fmt.Errorf("parsing front matter: %w", err)
	}
	obj.Body = body
	return &obj, nil
}

// splitFrontMatter separates the leading --- delimited YAML block from
// the markdown body. CRLF line endings are normalized first so
// Windows-authored files parse the same as Unix ones.
func splitFrontMatter(content string) (front, body string, err error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	trimmed := strings.TrimLeft(content, "\ufeff\n")
	if !strings.HasPrefix(trimmed, delimiter+"\n") && trimmed != delimiter {
		return "", "", fmt.Errorf("missing front matter: file does not start with %q", delimiter)
	}

	rest := strings.TrimPrefix(trimmed, delimiter+"\n")
	end := strings.Index(rest, "\n"+delimiter)
	if end < 0 {
		return "", "", fmt.Errorf("unterminated front matter: closing %q not found", delimiter)
	}

	front = rest[:end]
	body = rest[end+len("\n"+delimiter):]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")
	return front, body, nil
}

// Render serializes an Object back into file content: front matter,
// blank line, body.
func Render(obj *object.Object) ([]byte, error) {
	front, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("marshaling front matter: %w", err)
	}

	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.Write(front)
	b.WriteString(delimiter + "\n")
	if obj.Body != "" {
		b.WriteString("\n")
		b.WriteString(obj.Body)
		if !strings.HasSuffix(obj.Body, "\n") {
			b.WriteString("\n")
		}
	}
	return []byte(b.String()), nil
}
