package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/araraj1997/Agentic-Form-Analyser/internal/forms"
)

// JSONExtractor flattens a JSON document into "key: value" lines so the
// field patterns apply unchanged. Arrays of flat objects become raw table
// grids with the object keys as the header row.
type JSONExtractor struct{}

func (e *JSONExtractor) Extract(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	var lines []string
	var tables [][][]string
	flattenJSON("", root, &lines, &tables)

	return &Result{
		Text:   strings.Join(lines, "\n"),
		Tables: tables,
		Kind:   forms.FileKindJSON,
	}, nil
}

func flattenJSON(prefix string, node any, lines *[]string, tables *[][][]string) {
	switch v := node.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			flattenJSON(joinKey(prefix, k), v[k], lines, tables)
		}
	case []any:
		if grid, ok := objectsToGrid(v); ok {
			*tables = append(*tables, grid)
			return
		}
		for _, item := range v {
			flattenJSON(prefix, item, lines, tables)
		}
	case nil:
		// Absent values carry no information.
	default:
		*lines = append(*lines, fmt.Sprintf("%s: %s", prefix, scalarString(v)))
	}
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// objectsToGrid converts an array of flat objects sharing keys into a
// header row plus one row per object.
func objectsToGrid(items []any) ([][]string, bool) {
	if len(items) < 2 {
		return nil, false
	}
	var headers []string
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, false
		}
		if i == 0 {
			for k := range obj {
				headers = append(headers, k)
			}
			sort.Strings(headers)
			continue
		}
		for _, h := range headers {
			if _, ok := obj[h]; !ok {
				return nil, false
			}
		}
	}

	grid := [][]string{headers}
	for _, item := range items {
		obj := item.(map[string]any)
		row := make([]string, len(headers))
		for i, h := range headers {
			if val, ok := obj[h]; ok {
				row[i] = scalarString(val)
			}
		}
		grid = append(grid, row)
	}
	return grid, true
}

func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return fmt.Sprintf("%d", int64(s))
		}
		return fmt.Sprintf("%g", s)
	case bool:
		if s {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}
