package normalizer

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"newsfeed/internal/models"
)

const publishedLayout = "2006-01-02T15:04:05"

// Transformation diagnostics. None of them drop the element.
var (
	ErrBadPublicationDate = errors.New("unparseable webPublicationDate")
	ErrBadTags            = errors.New("malformed tags")
	ErrBadTagTitle        = errors.New("first contributor tag has no title")
)

// AuthorGuard selects which object's webTitle gates author extraction.
type AuthorGuard int

const (
	// GuardArticleTitle checks the article's own webTitle before reading the
	// first tag's webTitle. This is the historical behavior; since webTitle is
	// required on the article, the guard always passes.
	GuardArticleTitle AuthorGuard = iota
	// GuardTagTitle checks the tag's webTitle, so a tag without one simply
	// yields no author.
	GuardTagTitle
)

// Transformer converts validated records into Articles.
type Transformer struct {
	guard AuthorGuard
}

// NewTransformer creates a new transformer instance.
func NewTransformer(guard AuthorGuard) *Transformer {
	return &Transformer{guard: guard}
}

// Outcome is a transformed Article plus non-fatal field diagnostics.
type Outcome struct {
	Article  models.Article
	Warnings []error
}

// Transform builds an Article from rec. The record must already be validated.
func (t *Transformer) Transform(rec Record) (Outcome, error) {
	var out Outcome

	title, _ := rec.String(FieldTitle)
	section, _ := rec.String(FieldSection)
	link, _ := rec.String(FieldURL)

	published, err := t.publishedAt(rec)
	if err != nil {
		out.Warnings = append(out.Warnings, err)
	}

	author, err := t.author(rec)
	if err != nil {
		out.Warnings = append(out.Warnings, err)
	}

	article, err := models.NewArticle(title, section, link, published, author)
	if err != nil {
		return Outcome{}, fmt.Errorf("element %d: %w", rec.Index, err)
	}

	out.Article = article

	return out, nil
}

func (t *Transformer) publishedAt(rec Record) (*time.Time, error) {
	raw, err := rec.String(FieldPublished)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w: %w", rec.Index, ErrBadPublicationDate, err)
	}

	ts, err := ParsePublicationDate(raw)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w", rec.Index, err)
	}

	return &ts, nil
}

// ParsePublicationDate reads the leading yyyy-MM-ddTHH:mm:ss of raw as a UTC
// wall-clock time. Anything after the seconds, including a zone designator,
// is ignored and no zone conversion is applied.
func ParsePublicationDate(raw string) (time.Time, error) {
	if len(raw) < len(publishedLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadPublicationDate, raw)
	}

	ts, err := time.ParseInLocation(publishedLayout, raw[:len(publishedLayout)], time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadPublicationDate, raw)
	}

	return ts, nil
}

func (t *Transformer) author(rec Record) (*string, error) {
	raw, ok := rec.Fields[FieldTags]
	if !ok {
		return nil, nil
	}

	var tags []json.RawMessage
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil, fmt.Errorf("element %d: %w: %w", rec.Index, ErrBadTags, err)
	}

	if len(tags) == 0 {
		return nil, nil
	}

	var first map[string]json.RawMessage
	if err := json.Unmarshal(tags[0], &first); err != nil || first == nil {
		// null or non-object first tag: no contributor
		return nil, nil
	}

	switch t.guard {
	case GuardTagTitle:
		if _, ok := first[FieldTagTitle]; !ok {
			return nil, nil
		}
	default:
		if !rec.Has(FieldTitle) {
			return nil, nil
		}
	}

	name, err := stringField(first, FieldTagTitle)
	if err != nil {
		return nil, fmt.Errorf("element %d: %w: %w", rec.Index, ErrBadTagTitle, err)
	}

	return &name, nil
}
