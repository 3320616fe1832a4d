package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var ErrNotJSONObject = errors.New("response is not a single JSON object")

// DecodeStrict accepts a reply only when the whole text, ignoring
// surrounding whitespace, is one JSON object valid against schema.
// Prose or code fences around the object are rejected.
func DecodeStrict[T any](raw string, schema *jsonschema.Schema, out *T) error {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, "{") {
		return fmt.Errorf("%w: starts with %q", ErrNotJSONObject, head(text))
	}

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrNotJSONObject, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after object", ErrNotJSONObject)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match schema: %w", err)
	}

	strict := json.NewDecoder(bytes.NewReader([]byte(text)))
	strict.DisallowUnknownFields()
	if err := strict.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func head(s string) string {
	if r := []rune(s); len(r) > 20 {
		return string(r[:20])
	}
	return s
}
