package convert

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tabkit/tabkit/internal/cell"
)

// JSONOptions extends Options with the nested-array selector spec calls
// "--key", grounded on internal/importer/formats.go's ImportJSON
// (array-of-objects, ordered union-of-keys header).
type JSONOptions struct {
	Options
	// Key, if non-empty, selects a nested array field to flatten instead
	// of the document root (e.g. a {"results": [...]}-shaped API response).
	Key string
}

// FromJSON decodes a JSON array of flat objects (or an object whose Key
// field holds that array) into a cell.Table. Duplicate keys within a
// single object resolve last-write-wins, matching encoding/json's own
// object-decode semantics.
func FromJSON(raw []byte, opts JSONOptions) (*cell.Table, error) {
	utf8Bytes, err := decodeToUTF8(raw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var rawArray []json.RawMessage
	if opts.Key != "" {
		var doc map[string]json.RawMessage
		if err := json.Unmarshal(utf8Bytes, &doc); err != nil {
			return nil, fmt.Errorf("decoding JSON document: %w", err)
		}
		field, ok := doc[opts.Key]
		if !ok {
			return nil, fmt.Errorf("key %q not found in JSON document", opts.Key)
		}
		if err := json.Unmarshal(field, &rawArray); err != nil {
			return nil, fmt.Errorf("decoding JSON key %q as array: %w", opts.Key, err)
		}
	} else {
		if err := json.Unmarshal(utf8Bytes, &rawArray); err != nil {
			return nil, fmt.Errorf("decoding JSON array: %w", err)
		}
	}

	return objectsToTable(rawArray)
}

// FromNDJSON decodes newline-delimited JSON objects (one per line) into a
// cell.Table, grounded on internal/importer/fuzzy.go's
// parseLineDelimitedJSON.
func FromNDJSON(raw []byte, opts JSONOptions) (*cell.Table, error) {
	utf8Bytes, err := decodeToUTF8(raw, opts.Encoding)
	if err != nil {
		return nil, err
	}

	var rawArray []json.RawMessage
	scanner := bufio.NewScanner(bytes.NewReader(utf8Bytes))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		rawArray = append(rawArray, append(json.RawMessage(nil), line...))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return objectsToTable(rawArray)
}

func objectsToTable(rawArray []json.RawMessage) (*cell.Table, error) {
	objects := make([]map[string]any, len(rawArray))
	header := []string{}
	seen := map[string]bool{}
	for i, raw := range rawArray {
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("decoding JSON object %d: %w", i, err)
		}
		objects[i] = obj
		// Walk the object's tokens so keys join the header in document order.
		dec := json.NewDecoder(bytes.NewReader(raw))
		if _, err := dec.Token(); err == nil {
			for dec.More() {
				tok, err := dec.Token()
				if err != nil {
					break
				}
				if k, ok := tok.(string); ok && !seen[k] {
					seen[k] = true
					header = append(header, k)
				}
				var skip json.RawMessage
				if err := dec.Decode(&skip); err != nil {
					break
				}
			}
		}
	}

	var buf bytes.Buffer
	for i, h := range header {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(csvQuote(h))
	}
	buf.WriteByte('\n')

	for _, obj := range objects {
		for i, h := range header {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(csvQuote(jsonValueToString(obj[h])))
		}
		buf.WriteByte('\n')
	}

	return FromCSV(buf.Bytes(), Options{})
}

func jsonValueToString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}
