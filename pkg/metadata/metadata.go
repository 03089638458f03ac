// Package metadata stamps generated digests with a content hash so a later
// run can tell whether the feed changed and whether a file was edited.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart opens the metadata block.
	TagStart = "<!-- DIGEST_START"
	// TagEnd closes the metadata block.
	TagEnd = "DIGEST_END -->"
)

// Verification errors.
var (
	ErrNoMetadataBlock = errors.New("no metadata block found")
	ErrNoHashFound     = errors.New("no hash found in metadata")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Metadata describes how a digest was produced.
type Metadata struct {
	Generated time.Time
	Query     string
	Hash      string
	Count     int
}

var metadataRegex = regexp.MustCompile(`(?s)\n*<!--\s*DIGEST_START\s*\n(.*?)\n\s*DIGEST_END\s*-->\n*`)

// Extract splits content into its metadata block and the body that was hashed.
// The returned metadata is nil when there is no block.
func Extract(content string) (*Metadata, string) {
	match := metadataRegex.FindStringSubmatch(content)
	body := strings.TrimRight(metadataRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, body
	}

	meta := &Metadata{}

	for _, line := range strings.Split(match[1], "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}

		val = strings.TrimSpace(val)

		switch strings.TrimSpace(key) {
		case "GENERATED":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				meta.Generated = t
			}
		case "QUERY":
			meta.Query = val
		case "COUNT":
			if n, err := strconv.Atoi(val); err == nil {
				meta.Count = n
			}
		case "HASH":
			meta.Hash = val
		}
	}

	return meta, body
}

// CalculateHash returns the SHA-256 of content with any metadata block removed.
func CalculateHash(content string) string {
	_, body := Extract(content)
	sum := sha256.Sum256([]byte(body))

	return hex.EncodeToString(sum[:])
}

// Stamp appends a fresh metadata block to content, replacing any existing one.
func Stamp(content string, meta Metadata) string {
	_, body := Extract(content)

	generated := meta.Generated
	if generated.IsZero() {
		generated = time.Now()
	}

	return fmt.Sprintf("%s\n\n%s\nQUERY: %s\nCOUNT: %d\nGENERATED: %s\nHASH: %s\n%s\n",
		body, TagStart, meta.Query, meta.Count,
		generated.UTC().Format(time.RFC3339), CalculateHash(body), TagEnd)
}

// Verify checks that content still matches the hash in its metadata block.
func Verify(content string) (*Metadata, error) {
	meta, body := Extract(content)
	if meta == nil {
		return nil, ErrNoMetadataBlock
	}

	if meta.Hash == "" {
		return meta, ErrNoHashFound
	}

	if calculated := CalculateHash(body); calculated != meta.Hash {
		return meta, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, meta.Hash, calculated)
	}

	return meta, nil
}

// SameBody reports whether two documents carry the same hashed body,
// ignoring when each was generated.
func SameBody(a, b string) bool {
	return CalculateHash(a) == CalculateHash(b)
}
