// Package schema validates inbound light commands against JSON Schema
// before any device is touched.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/urmzd/ledhub/pkg/light"
)

// Validator compiles schemas on first use and keeps them.
type Validator struct {
	mu       sync.Mutex
	compiled map[string]*jsonschema.Schema
}

// NewValidator creates a Validator.
func NewValidator() *Validator {
	return &Validator{compiled: make(map[string]*jsonschema.Schema)}
}

// ValidateRequest checks payload against the schema of req. Failures wrap
// light.ErrValidation.
func (v *Validator) ValidateRequest(req Request, payload map[string]any) error {
	doc, ok := requests[req]
	if !ok {
		return fmt.Errorf("unknown request schema %q", req)
	}
	return v.validate("request/"+string(req)+".json", doc, payload)
}

// Validate checks payload against an arbitrary schema document. An empty
// document accepts everything.
func (v *Validator) Validate(doc json.RawMessage, payload map[string]any) error {
	trimmed := bytes.TrimSpace(doc)
	if len(trimmed) == 0 || string(trimmed) == "{}" || string(trimmed) == "null" {
		return nil
	}
	return v.validate("inline/"+string(trimmed), trimmed, payload)
}

func (v *Validator) validate(key string, doc json.RawMessage, payload map[string]any) error {
	s, err := v.schema(key, doc)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}
	if err := s.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", light.ErrValidation, err)
	}
	return nil
}

func (v *Validator) schema(key string, doc json.RawMessage) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.compiled[key]; ok {
		return s, nil
	}

	parsed, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", parsed); err != nil {
		return nil, err
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return nil, err
	}
	v.compiled[key] = s
	return s, nil
}
