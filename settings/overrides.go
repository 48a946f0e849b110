package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyOverrides applies an RFC 6902 JSON Patch to the JSON form of s.
// Paths are the JSON field names, e.g. "/sdk_key".
func ApplyOverrides(s Settings, patchJSON []byte) (Settings, error) {
	patch, err := jsonpatch.DecodePatch(patchJSON)
	if err != nil {
		return s, fmt.Errorf("%w: decoding patch: %v", ErrInvalid, err)
	}
	doc, err := json.Marshal(s)
	if err != nil {
		return s, err
	}
	patched, err := patch.Apply(doc)
	if err != nil {
		return s, fmt.Errorf("%w: applying patch: %v", ErrInvalid, err)
	}

	var out Settings
	dec := json.NewDecoder(bytes.NewReader(patched))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return s, fmt.Errorf("%w: patched settings: %v", ErrInvalid, err)
	}
	return out, nil
}

type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value"`
}

// OverridePatch turns "key=value" pairs into a JSON Patch of replace
// operations. Values of boolean fields are parsed as booleans.
func OverridePatch(pairs []string) ([]byte, error) {
	ops := make([]patchOp, 0, len(pairs))
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: override %q is not key=value", ErrInvalid, pair)
		}
		val, err := typedValue(key, raw)
		if err != nil {
			return nil, err
		}
		ops = append(ops, patchOp{Op: "replace", Path: "/" + key, Value: val})
	}
	return json.Marshal(ops)
}

// typedValue converts raw to the JSON type of the named Settings field.
func typedValue(key, raw string) (any, error) {
	doc, err := json.Marshal(Default())
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return nil, err
	}
	cur, known := fields[key]
	if !known {
		return nil, fmt.Errorf("%w: unknown setting %q", ErrInvalid, key)
	}
	if _, isBool := cur.(bool); isBool {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
		}
		return b, nil
	}
	return raw, nil
}
