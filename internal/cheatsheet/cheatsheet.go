// Package cheatsheet holds the bundled quick-reference notes, one sheet per
// quiz topic.
package cheatsheet

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed sheets.yaml
var bundled []byte

// DefaultTopic is shown when a topic has no sheet of its own.
const DefaultTopic = "Java Core"

// Concept is one entry of a sheet.
type Concept struct {
	Name    string   `yaml:"name"`
	Desc    string   `yaml:"desc"`
	Details []string `yaml:"details,omitempty"`
	Syntax  string   `yaml:"syntax,omitempty"`
}

// Library maps a topic to its concepts, in file order.
type Library map[string][]Concept

// Load parses the bundled sheets.
func Load() (Library, error) {
	return Parse(bundled)
}

// Parse decodes sheets from YAML. Every concept needs a name.
func Parse(data []byte) (Library, error) {
	var lib Library
	if err := yaml.Unmarshal(data, &lib); err != nil {
		return nil, fmt.Errorf("parse cheat sheets: %w", err)
	}
	for topic, concepts := range lib {
		for i, c := range concepts {
			if strings.TrimSpace(c.Name) == "" {
				return nil, fmt.Errorf("cheat sheet %q: entry %d has no name", topic, i+1)
			}
		}
	}
	return lib, nil
}

// Sheet returns the concepts for topic, falling back to DefaultTopic.
func (l Library) Sheet(topic string) []Concept {
	if cs, ok := l[topic]; ok {
		return cs
	}
	return l[DefaultTopic]
}

// Filter keeps concepts whose name or description contains query, ignoring
// case. An empty query keeps everything.
func Filter(concepts []Concept, query string) []Concept {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return concepts
	}
	var out []Concept
	for _, c := range concepts {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Desc), q) {
			out = append(out, c)
		}
	}
	return out
}
