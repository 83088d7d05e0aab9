// Package event implements combat log line tokenization and event decoding.
package event

import (
	"errors"
	"strings"
)

const (
	// MaxTokens is the most fields a single log line may carry.
	MaxTokens = 64

	// MaxTokenLength is the longest permitted single field, including
	// the reserved terminator slot.
	MaxTokenLength = 256
)

// ErrTokenOverflow reports a field that exceeds MaxTokenLength without a
// field separator at the boundary.
var ErrTokenOverflow = errors.New("token exceeds maximum length")

// Tokenize splits a raw combat log line into its fields.
//
// Fields are separated by spaces or commas. Double quotes enclose literal
// text in which separators lose their meaning; the quotes themselves are
// dropped. Bytes outside the printable ASCII range are skipped. Leading
// spaces before a field are ignored, but a comma always terminates the
// current field, so consecutive commas produce empty fields.
func Tokenize(line string) ([]string, error) {
	tokens := make([]string, 0, 24)

	pos := 0
	for {
		tok, consumed, err := scanToken(line, pos)
		if err != nil {
			return nil, err
		}
		if consumed == 0 {
			break
		}

		tokens = append(tokens, tok)
		if len(tokens)+1 >= MaxTokens {
			break
		}

		pos += consumed
		if pos >= len(line) {
			break
		}
	}

	return tokens, nil
}

// scanToken extracts a single field starting at pos and reports how many
// input bytes it consumed, including any terminating separator.
func scanToken(line string, pos int) (string, int, error) {
	var b strings.Builder

	literal := false
	consumed := 0

	for i := pos; i < len(line); i++ {
		consumed++

		c := line[i]
		if c < 32 || c > 126 {
			continue
		}

		if c == '"' {
			literal = !literal
			continue
		}

		if !literal && (c == ' ' || c == ',') {
			if c == ' ' && b.Len() == 0 {
				continue
			}
			break
		}

		b.WriteByte(c)

		if b.Len()+1 >= MaxTokenLength {
			// Overlong fields are tolerated only when truncation lands
			// exactly on a separator.
			if i+1 < len(line) && (line[i+1] == ' ' || line[i+1] == ',') {
				break
			}
			return "", 0, ErrTokenOverflow
		}
	}

	return b.String(), consumed, nil
}
