package tools

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// AddTool registers a tool after checking that the zero value of its output
// type satisfies the schema the SDK infers for it. A nil slice marshals as
// null while the inferred schema says "array", and the SDK would only notice
// when the tool first returns one.
//
// Panics if the check fails.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
	slog.Debug("tool registered", slog.String("tool", t.Name))
}

// CheckOutputSchema panics with a fix-it message when ValidateOutputType
// rejects T.
func CheckOutputSchema[T any](toolName string) {
	if err := ValidateOutputType(reflect.TypeFor[T]()); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", toolName, err))
	}
}

// ValidateOutputType reports output types whose values would fail the
// SDK's own output validation:
//   - json.RawMessage fields, which the schema generator sees as []byte
//     (an array of integers) but which marshal as arbitrary JSON;
//   - zero values that do not validate, typically nil slices without
//     omitzero.
//
// The untyped any output is always accepted. Types the schema generator
// cannot handle are left for the SDK to report.
func ValidateOutputType(rt reflect.Type) error {
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := rawMessagePaths(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		return fmt.Errorf("output type %s has json.RawMessage at %s\n"+
			"  the schema generator infers []byte (array of ints) for it\n"+
			"  Fix: make the field any (or []any) and fill it with document.ToAny",
			elem, strings.Join(paths, ", "))
	}

	schema, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(elem).Interface())
	if err != nil {
		return nil
	}
	var v map[string]any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	if err := resolved.Validate(&v); err != nil {
		return fmt.Errorf("zero value of output type %s fails schema validation: %w\n"+
			"  JSON: %s\n"+
			"  Fix: add `omitzero` to slice fields that default to nil, or initialize them",
			elem, err, data)
	}
	return nil
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// rawMessagePaths walks t and returns the dotted paths of json.RawMessage
// fields, elements and map values.
func rawMessagePaths(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if f.IsExported() {
				found = append(found, rawMessagePaths(f.Type, append(path, f.Name), visiting)...)
			}
		}
	case reflect.Slice, reflect.Array:
		found = append(found, rawMessagePaths(t.Elem(), append(path, "[]"), visiting)...)
	case reflect.Map:
		found = append(found, rawMessagePaths(t.Elem(), append(path, "[value]"), visiting)...)
	}
	return found
}
