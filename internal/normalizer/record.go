// Package normalizer turns raw search result elements into Article records.
package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Field names of a search result element.
const (
	FieldSection   = "sectionName"
	FieldPublished = "webPublicationDate"
	FieldTitle     = "webTitle"
	FieldURL       = "webUrl"
	FieldTags      = "tags"
	FieldTagTitle  = "webTitle"
)

// Field extraction errors.
var (
	ErrMissingField = errors.New("missing field")
	ErrWrongType    = errors.New("field has unexpected type")
)

// Record is one undecoded element of the response.results array.
type Record struct {
	Fields map[string]json.RawMessage
	Index  int
}

// NewRecord decodes a raw result element. It fails if the element is not a JSON object.
func NewRecord(index int, raw json.RawMessage) (Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Record{}, fmt.Errorf("%w: element %d is not an object: %w", ErrWrongType, index, err)
	}

	if fields == nil {
		return Record{}, fmt.Errorf("%w: element %d is null", ErrWrongType, index)
	}

	return Record{Fields: fields, Index: index}, nil
}

// Has reports whether the element carries key, regardless of its value.
func (r Record) Has(key string) bool {
	_, ok := r.Fields[key]
	return ok
}

// String extracts a string field.
func (r Record) String(key string) (string, error) {
	return stringField(r.Fields, key)
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %s", ErrWrongType, key)
	}

	return s, nil
}
