package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds one compiled validator per Schema.Name.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]*jsonschema.Schema
}{byName: map[string]*jsonschema.Schema{}}

// conform checks model text against schema and returns the JSON document.
// Smaller models often wrap JSON in a Markdown fence even in JSON mode, so
// the fence is stripped before parsing. Without a schema the text is
// returned untouched.
func conform(schema *Schema, text string) (json.RawMessage, error) {
	if schema == nil {
		return json.RawMessage(text), nil
	}

	doc := []byte(unfence(text))
	var value any
	if err := json.Unmarshal(doc, &value); err != nil {
		return nil, &ErrInvalidResponse{Content: json.RawMessage(text), Err: fmt.Errorf("not JSON: %w", err)}
	}

	v, err := compiled(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: json.RawMessage(text), Err: err}
	}
	if err := v.Validate(value); err != nil {
		return nil, &ErrInvalidResponse{Content: json.RawMessage(doc), Err: fmt.Errorf("does not match %s: %w", schema.Name, err)}
	}
	return json.RawMessage(bytes.TrimSpace(doc)), nil
}

// unfence removes a surrounding ``` or ```json block.
func unfence(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}

func compiled(schema *Schema) (*jsonschema.Schema, error) {
	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()
	if v, ok := compiledSchemas.byName[schema.Name]; ok {
		return v, nil
	}

	// The compiler wants decoded JSON values, not Go maps with typed slices.
	raw, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", schema.Name, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", schema.Name, err)
	}

	url := "mem://devready/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", schema.Name, err)
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", schema.Name, err)
	}
	compiledSchemas.byName[schema.Name] = v
	return v, nil
}
