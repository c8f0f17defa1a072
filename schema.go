package doguda

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
)

// InputSchema synthesizes the request schema for the named command: an object
// schema covering exactly the parameters that caller input must supply.
// Parameters whose type has a registered provider never appear, and
// parameters without a default are required. The schema is derived fresh on
// each call from the registered descriptor.
func (a *App) InputSchema(name string) (*jsonschema.Schema, error) {
	cmd, ok := a.commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return a.inputSchema(cmd), nil
}

// OutputSchema synthesizes the response schema for the named command from its
// declared result type. A handler with no non-error result has no output
// schema and returns nil.
func (a *App) OutputSchema(name string) (*jsonschema.Schema, error) {
	cmd, ok := a.commands[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	if cmd.resultType == nil {
		return nil, nil
	}
	return schemaForType(cmd.resultType), nil
}

func (a *App) inputSchema(cmd *command) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for _, p := range cmd.params {
		if a.providedByTable(p.paramType) {
			continue
		}
		field := schemaForType(p.paramType)
		if p.doc != "" {
			field.Description = p.doc
		}
		if p.hasDefault {
			if raw, err := json.Marshal(p.defValue.Interface()); err == nil {
				field.Default = json.RawMessage(raw)
			}
		} else {
			s.Required = append(s.Required, p.name)
		}
		s.Properties[p.name] = field
	}
	return s
}

// schemaForType maps a Go type to a structural JSON schema. Interface types
// map to the empty schema, which accepts anything.
func schemaForType(t reflect.Type) *jsonschema.Schema {
	return typeSchema(t, map[reflect.Type]bool{})
}

func typeSchema(t reflect.Type, seen map[reflect.Type]bool) *jsonschema.Schema {
	switch t.Kind() {
	case reflect.Pointer:
		return typeSchema(t.Elem(), seen)
	case reflect.String:
		return &jsonschema.Schema{Type: "string"}
	case reflect.Bool:
		return &jsonschema.Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &jsonschema.Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &jsonschema.Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &jsonschema.Schema{Type: "array", Items: typeSchema(t.Elem(), seen)}
	case reflect.Map:
		return &jsonschema.Schema{Type: "object", AdditionalProperties: typeSchema(t.Elem(), seen)}
	case reflect.Struct:
		if t == timeType {
			return &jsonschema.Schema{Type: "string", Format: "date-time"}
		}
		if seen[t] {
			// Self-referential type; leave the nested occurrence open.
			return &jsonschema.Schema{Type: "object"}
		}
		seen[t] = true
		return structSchema(t, seen)
	default:
		// Interfaces and anything else: unconstrained.
		return &jsonschema.Schema{}
	}
}

func structSchema(t reflect.Type, seen map[reflect.Type]bool) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Type:       "object",
		Properties: map[string]*jsonschema.Schema{},
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name, opts := parseJSONTag(field)
		if name == "-" {
			continue
		}
		s.Properties[name] = typeSchema(field.Type, seen)
		if !opts.omitempty && field.Type.Kind() != reflect.Pointer {
			s.Required = append(s.Required, name)
		}
	}
	return s
}

type jsonTagOptions struct {
	omitempty bool
}

func parseJSONTag(field reflect.StructField) (string, jsonTagOptions) {
	tag := field.Tag.Get("json")
	if tag == "" {
		return field.Name, jsonTagOptions{}
	}
	parts := strings.Split(tag, ",")
	name := parts[0]
	if name == "" {
		name = field.Name
	}
	var opts jsonTagOptions
	for _, part := range parts[1:] {
		if part == "omitempty" {
			opts.omitempty = true
		}
	}
	return name, opts
}
