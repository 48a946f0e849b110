package settings

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnsupportedEdit is returned when a key's value cannot be replaced in place.
var ErrUnsupportedEdit = errors.New("settings: value cannot be edited in place")

// SetValue sets a top-level key of a YAML settings file and returns the new
// bytes. Only the value token changes: comments, key order, quoting style and
// every other byte are kept. A missing key is appended at the end.
func SetValue(data []byte, key string, value any) ([]byte, error) {
	var doc yaml.Node
	if len(bytes.TrimSpace(data)) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: "<settings>", Err: err}
		}
	}

	var root *yaml.Node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		root = doc.Content[0]
		if root.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("%w: top-level YAML must be a mapping", ErrUnsupportedEdit)
		}
		if root.Style&yaml.FlowStyle != 0 {
			return nil, fmt.Errorf("%w: flow-style mapping", ErrUnsupportedEdit)
		}
	}

	var keyNode, valNode *yaml.Node
	if root != nil {
		// Last occurrence wins, matching what the decoder sees.
		for i := 0; i+1 < len(root.Content); i += 2 {
			if root.Content[i].Value == key {
				keyNode, valNode = root.Content[i], root.Content[i+1]
			}
		}
	}
	if valNode == nil {
		return appendKey(data, key, value), nil
	}

	lineOffsets := buildLineOffsets(data)
	if valNode.Kind == yaml.ScalarNode && valNode.Tag == "!!null" && valNode.Value == "" {
		return fillEmptyValue(data, lineOffsets, keyNode, value)
	}

	if valNode.Kind != yaml.ScalarNode || valNode.Style&(yaml.LiteralStyle|yaml.FoldedStyle) != 0 {
		return nil, fmt.Errorf("%w: %s is not a single-line scalar", ErrUnsupportedEdit, key)
	}

	start := offsetFor(lineOffsets, valNode.Line, valNode.Column)
	if start < 0 || start > len(data) {
		return nil, fmt.Errorf("%w: %s has no position", ErrUnsupportedEdit, key)
	}
	end := findScalarEnd(data, start)

	tok := replacementToken(data[start:end], value)
	out := make([]byte, 0, len(data)+len(tok))
	out = append(out, data[:start]...)
	out = append(out, tok...)
	out = append(out, data[end:]...)
	return out, nil
}

// fillEmptyValue handles "key:" with nothing after the colon.
func fillEmptyValue(data []byte, lineOffsets []int, keyNode *yaml.Node, value any) ([]byte, error) {
	keyStart := offsetFor(lineOffsets, keyNode.Line, keyNode.Column)
	if keyStart < 0 || keyStart >= len(data) {
		return nil, fmt.Errorf("%w: %s has no position", ErrUnsupportedEdit, keyNode.Value)
	}
	keyEnd := keyStart + len(keyNode.Value)
	if keyNode.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) != 0 {
		keyEnd = findScalarEnd(data, keyStart)
	}
	colon := bytes.IndexByte(data[keyEnd:], ':')
	if colon < 0 {
		return nil, fmt.Errorf("%w: %s has no separator", ErrUnsupportedEdit, keyNode.Value)
	}
	at := keyEnd + colon + 1

	tok := " " + newToken(value)
	out := make([]byte, 0, len(data)+len(tok))
	out = append(out, data[:at]...)
	out = append(out, tok...)
	out = append(out, data[at:]...)
	return out, nil
}

func appendKey(data []byte, key string, value any) []byte {
	out := append([]byte(nil), data...)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, key...)
	out = append(out, ": "...)
	out = append(out, newToken(value)...)
	return append(out, '\n')
}

func buildLineOffsets(b []byte) []int {
	offsets := []int{0}
	for i, c := range b {
		if c == '\n' && i+1 < len(b) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// offsetFor converts yaml.v3's 1-based line/column to a byte offset.
func offsetFor(lineOffsets []int, line, col int) int {
	if line <= 0 || col <= 0 || line > len(lineOffsets) {
		return -1
	}
	return lineOffsets[line-1] + col - 1
}

// findScalarEnd returns the exclusive end of the scalar token at pos on its
// line: through the closing quote for quoted scalars, otherwise up to an
// inline comment or end of line with trailing blanks trimmed.
func findScalarEnd(b []byte, pos int) int {
	limit := bytes.IndexByte(b[pos:], '\n')
	if limit < 0 {
		limit = len(b)
	} else {
		limit += pos
	}
	if limit > pos && b[limit-1] == '\r' {
		limit--
	}
	if pos >= limit {
		return pos
	}

	switch b[pos] {
	case '\'':
		for i := pos + 1; i < limit; i++ {
			if b[i] != '\'' {
				continue
			}
			if i+1 < limit && b[i+1] == '\'' {
				i++
				continue
			}
			return i + 1
		}
		return limit
	case '"':
		for i := pos + 1; i < limit; i++ {
			switch b[i] {
			case '\\':
				i++
			case '"':
				return i + 1
			}
		}
		return limit
	}

	end := limit
	for i := pos; i < limit; i++ {
		if b[i] == '#' && i > pos && (b[i-1] == ' ' || b[i-1] == '\t') {
			end = i
			break
		}
	}
	for end > pos && (b[end-1] == ' ' || b[end-1] == '\t') {
		end--
	}
	return end
}

// Plain scalars YAML would resolve to something other than a string.
var reservedPlain = map[string]struct{}{
	"": {}, "~": {}, "null": {}, "Null": {}, "NULL": {},
	"true": {}, "True": {}, "TRUE": {}, "false": {}, "False": {}, "FALSE": {},
	"yes": {}, "Yes": {}, "YES": {}, "no": {}, "No": {}, "NO": {},
	"on": {}, "On": {}, "ON": {}, "off": {}, "Off": {}, "OFF": {},
}

func isPlainSafe(s string) bool {
	if _, bad := reservedPlain[s]; bad {
		return false
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return false
	}
	if strings.ContainsAny(s, " \t\n\r:#{}[],&*!|>'\"%@`") || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "?") {
		return false
	}
	return true
}

func escapeDouble(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(s)
}

// replacementToken renders value in the quoting style of the old token.
func replacementToken(old []byte, value any) []byte {
	s, isString := value.(string)
	if !isString {
		return []byte(fmt.Sprint(value))
	}
	if len(old) > 0 {
		switch old[0] {
		case '\'':
			return []byte("'" + strings.ReplaceAll(s, "'", "''") + "'")
		case '"':
			return []byte(`"` + escapeDouble(s) + `"`)
		}
	}
	if isPlainSafe(s) {
		return []byte(s)
	}
	return []byte(`"` + escapeDouble(s) + `"`)
}

// newToken renders value for a freshly appended key.
func newToken(value any) string {
	s, isString := value.(string)
	if !isString {
		return fmt.Sprint(value)
	}
	if !strings.ContainsAny(s, "'\n\r\t") {
		return "'" + s + "'"
	}
	return `"` + escapeDouble(s) + `"`
}

// SetFile applies SetValue to the settings file at path, creating it when
// missing. The value is type-checked against the Settings field.
func SetFile(path, key, raw string) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return fmt.Errorf("%w: only YAML settings files can be edited", ErrUnsupportedEdit)
	}
	value, err := typedValue(key, raw)
	if err != nil {
		return err
	}
	data, err := readOptional(path)
	if err != nil {
		return err
	}
	out, err := SetValue(data, key, value)
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

func readOptional(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return data, nil
}

func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}
	return nil
}
