package normalizer

import (
	"fmt"
)

// Processor validates and transforms records.
type Processor struct {
	validator   *Validator
	transformer *Transformer
}

// NewProcessor creates a new processor instance.
func NewProcessor(guard AuthorGuard) *Processor {
	return &Processor{
		validator:   NewValidator(),
		transformer: NewTransformer(guard),
	}
}

// Process turns one record into an Article. An error means the element must be skipped.
func (p *Processor) Process(rec Record) (Outcome, error) {
	if err := p.validator.Validate(rec); err != nil {
		return Outcome{}, fmt.Errorf("validation failed: %w", err)
	}

	out, err := p.transformer.Transform(rec)
	if err != nil {
		return Outcome{}, fmt.Errorf("transformation failed: %w", err)
	}

	return out, nil
}
