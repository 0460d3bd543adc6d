// Package corpus loads line-delimited JSON corpora.
package corpus

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 16 << 20

type Corpus struct {
	Path  string
	Field string
	Texts []string
	// Skipped counts records with no usable text under Field.
	Skipped int
	// Malformed counts lines that are not JSON objects.
	Malformed int
}

func (c *Corpus) Len() int { return len(c.Texts) }

func Load(path, field string) (*Corpus, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	defer f.Close()

	c, err := Read(f, field)
	if err != nil {
		return nil, fmt.Errorf("read corpus %s: %w", path, err)
	}
	c.Path = path
	return c, nil
}

// Read parses one JSON object per line and keeps the non-empty string
// stored under field.
func Read(r io.Reader, field string) (*Corpus, error) {
	if strings.TrimSpace(field) == "" {
		return nil, fmt.Errorf("text field name is required")
	}
	c := &Corpus{Field: field, Texts: []string{}}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var rec map[string]json.RawMessage
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			c.Malformed++
			continue
		}
		raw, ok := rec[field]
		if !ok {
			c.Skipped++
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil || strings.TrimSpace(text) == "" {
			c.Skipped++
			continue
		}
		c.Texts = append(c.Texts, text)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
