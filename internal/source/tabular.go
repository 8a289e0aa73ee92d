package source

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/usestring/exemplar-mcp/pkg/document"
)

// decodeCSV reads a header row followed by data rows. Each row becomes an
// object keyed by header; empty cells are left out. Blank header cells are
// named col_N.
func decodeCSV(data []byte, comma rune) ([]document.Value, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // Allow variable field counts
	if comma != 0 {
		reader.Comma = comma
	}

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("CSV parse error: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(h)
		if headers[i] == "" {
			headers[i] = fmt.Sprintf("col_%d", i)
		}
	}

	var values []document.Value
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV parse error: %w", err)
		}

		obj := document.NewObject()
		for i, cell := range record {
			if i >= len(headers) {
				break
			}
			if v := coerce(strings.TrimSpace(cell)); !v.IsNull() {
				obj.Set(headers[i], v)
			}
		}
		values = append(values, document.ObjectValue(obj))
	}
	return values, nil
}

// decodeForm reads form-urlencoded bodies, one document per non-empty line.
// Keys are sorted and repeated keys become arrays.
func decodeForm(data []byte) ([]document.Value, error) {
	var values []document.Value
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		form, err := url.ParseQuery(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse form data on line %d: %w", i+1, err)
		}

		keys := make([]string, 0, len(form))
		for k := range form {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		obj := document.NewObject()
		for _, k := range keys {
			vals := form[k]
			if len(vals) == 1 {
				obj.Set(k, coerce(vals[0]))
				continue
			}
			elems := make([]document.Value, len(vals))
			for j, v := range vals {
				elems[j] = coerce(v)
			}
			obj.Set(k, document.Array(elems...))
		}
		values = append(values, document.ObjectValue(obj))
	}
	return values, nil
}
