// Package query selects documents out of wrapper payloads with jq
// expressions.
package query

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

const compiledCacheSize = 64

// Engine executes jq expressions against documents. Compiled expressions are
// cached; an Engine is safe for concurrent use.
type Engine struct {
	compiled *lru.Cache[string, *gojq.Code]
}

// NewEngine creates a new query engine.
func NewEngine() *Engine {
	c, _ := lru.New[string, *gojq.Code](compiledCacheSize)
	return &Engine{compiled: c}
}

// Result contains the values selected by an expression.
type Result struct {
	Values         []document.Value `json:"-"`
	Errors         []string         `json:"errors,omitempty"`  // Per-input runtime errors
	RawCount       int              `json:"raw_count"`         // Non-null outputs
	MatchedIndices []int            `json:"matched_indices"`   // Inputs that produced values
}

// Select runs expression over every input in order and collects all non-null
// outputs. Runtime errors are recorded per input and do not stop the run.
// maxResults <= 0 means no limit.
//
// Objects produced by jq lose their key order; keys of selected objects come
// back sorted.
func (e *Engine) Select(inputs []document.Value, expression string, maxResults int) (*Result, error) {
	code, err := e.compile(expression)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Values:         make([]document.Value, 0),
		MatchedIndices: make([]int, 0),
	}
	seenErrors := make(map[string]bool)

	for i, input := range inputs {
		if maxResults > 0 && len(result.Values) >= maxResults {
			break
		}

		label := fmt.Sprintf("document[%d]", i)
		matched := false
		iter := code.Run(document.ToAny(input))

		for {
			if maxResults > 0 && len(result.Values) >= maxResults {
				break
			}

			v, ok := iter.Next()
			if !ok {
				break
			}

			if err, isErr := v.(error); isErr {
				msg := formatJQError(label, err)
				if !seenErrors[msg] {
					result.Errors = append(result.Errors, msg)
					seenErrors[msg] = true
				}
				continue
			}

			if v == nil {
				continue
			}

			result.RawCount++
			matched = true
			result.Values = append(result.Values, document.FromAny(v))
		}

		if matched {
			result.MatchedIndices = append(result.MatchedIndices, i)
		}
	}

	return result, nil
}

// SelectDocuments is Select narrowed to object outputs.
func (e *Engine) SelectDocuments(inputs []document.Value, expression string, maxResults int) ([]*document.Object, []string, error) {
	res, err := e.Select(inputs, expression, maxResults)
	if err != nil {
		return nil, nil, err
	}
	return document.Objects(res.Values), res.Errors, nil
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.compile(expression)
	return err
}

func (e *Engine) compile(expression string) (*gojq.Code, error) {
	if code, ok := e.compiled.Get(expression); ok {
		return code, nil
	}

	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}

	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("failed to compile jq expression: %w", err)
	}

	e.compiled.Add(expression, code)
	return code, nil
}

// formatJQError creates a helpful error message for jq runtime errors.
//
// Runtime errors such as "cannot iterate over: null" are plain errors in
// gojq, so hints are chosen by message text. Only display text depends on it.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		if haltErr.Value() == nil {
			return fmt.Sprintf("%s: query halted", label)
		}
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
