package title

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"marquee/internal/services"
)

const (
	minTitleLength = 2
	maxTitleLength = 100
)

// Years outside this range are kept as title text rather than extracted.
const (
	earliestReleaseYear = 1888
	latestReleaseYear   = 2100
)

var ErrEmptyQuery = errors.New("empty query")

var trailingYearPattern = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)

// Query is the canonical form of a user-supplied title. It is immutable and
// derived deterministically from the raw text.
type Query struct {
	Raw     string
	Key     string
	Year    int
	Display string
}

// HasYear reports whether the raw text carried a trailing release year.
func (q Query) HasYear() bool {
	return q.Year != 0
}

// Normalize converts raw user text into a search Query. Blank input fails with
// ErrEmptyQuery; out-of-bounds lengths fail validation. A trailing "(YYYY)"
// is stripped into Query.Year when it looks like a release year.
func Normalize(raw string) (Query, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Query{}, ErrEmptyQuery
	}

	year := 0
	if match := trailingYearPattern.FindStringSubmatch(trimmed); match != nil {
		if parsed, err := strconv.Atoi(match[1]); err == nil &&
			parsed >= earliestReleaseYear && parsed <= latestReleaseYear {
			year = parsed
			trimmed = strings.TrimSpace(trailingYearPattern.ReplaceAllString(trimmed, ""))
		}
	}
	if trimmed == "" {
		return Query{}, ErrEmptyQuery
	}

	key := Key(trimmed)
	if key == "" {
		return Query{}, ErrEmptyQuery
	}

	if length := utf8.RuneCountInString(trimmed); length < minTitleLength || length > maxTitleLength {
		return Query{}, services.Wrap(services.ErrValidation, "title", "normalize",
			fmt.Sprintf("title must be between %d and %d characters", minTitleLength, maxTitleLength), nil)
	}

	return Query{
		Raw:     raw,
		Key:     key,
		Year:    year,
		Display: cases.Title(language.Und).String(key),
	}, nil
}

// Key lowers the text, strips punctuation that carries no title meaning, and
// collapses internal whitespace. Same input always yields the same key.
func Key(text string) string {
	lowered := strings.ToLower(text)
	lowered = strings.ReplaceAll(lowered, "&", " and ")
	lowered = strings.ReplaceAll(lowered, "+", " and ")

	var cleaned strings.Builder
	prevSpace := true
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case r == '\'':
			// Apostrophes join contractions: "don't" keys as "dont".
		default:
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(cleaned.String())
}
