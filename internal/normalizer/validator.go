package normalizer

import (
	"errors"
	"fmt"

	"newsfeed/pkg/utils"
)

// Validation errors.
var (
	ErrEmptyField  = errors.New("required field is empty")
	ErrRelativeURL = errors.New("webUrl is not an absolute http(s) URL")
)

// requiredFields must be present as non-empty strings for an element to be usable.
var requiredFields = []string{FieldTitle, FieldURL, FieldSection}

// Validator checks that a record can become an Article.
type Validator struct {
	http *utils.HTTPHelper
}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{http: utils.NewHTTPHelper()}
}

// Validate returns the first reason the record is unusable, or nil.
func (v *Validator) Validate(rec Record) error {
	for _, key := range requiredFields {
		s, err := rec.String(key)
		if err != nil {
			return fmt.Errorf("element %d: %w", rec.Index, err)
		}

		if s == "" {
			return fmt.Errorf("element %d: %w: %s", rec.Index, ErrEmptyField, key)
		}
	}

	link, _ := rec.String(FieldURL)
	if !v.http.IsValidURL(link) {
		return fmt.Errorf("element %d: %w: %q", rec.Index, ErrRelativeURL, link)
	}

	return nil
}
