package rules

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

const defaultKey = "default"

//go:embed classic.json
var classicJSON []byte

//Classic returns the built-in two state table (white turns right, black turns left)
func Classic() *Table {
	t, err := Parse(classicJSON)
	if err != nil {
		panic(err)
	}
	return t
}

//LoadFile reads and validates the rule file at path
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule file: %w", err)
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

//Load reads and validates a rule table from r
func Load(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rule table: %w", err)
	}
	return Parse(data)
}

//Parse validates a rule table in the rule file format:
//the "default" key names the default state, every other key is a state name mapped to its rule
func Parse(data []byte) (*Table, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &TableError{Reason: err.Error()}
	}

	raw, ok := doc[defaultKey]
	if !ok {
		return nil, &TableError{Key: defaultKey, Reason: "missing"}
	}
	var defaultName string
	if err := json.Unmarshal(raw, &defaultName); err != nil {
		return nil, &TableError{Key: defaultKey, Reason: "must be a state name"}
	}

	defs := make(map[string]Definition, len(doc)-1)
	for name, raw := range doc {
		if name == defaultKey {
			continue
		}
		var d Definition
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&d); err != nil {
			return nil, &TableError{Key: name, Reason: err.Error()}
		}
		defs[name] = d
	}
	return New(defaultName, defs)
}
