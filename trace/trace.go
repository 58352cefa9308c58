// Package trace reads memory reference sequences.
//
// References are integers separated by commas or whitespace. Decimal, 0x
// hexadecimal, and 0b binary literals are accepted. In files, everything after
// a '#' on a line is a comment.
package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// ErrMalformedReference is wrapped by every ParseError.
var ErrMalformedReference = errors.New("malformed memory reference")

var errSignAfterPrefix = errors.New("unexpected sign in literal")

// ParseError reports a token that is not an integer.
type ParseError struct {
	// Position is the 1-based position of the token in the sequence.
	Position int
	// Line is the 1-based line number, or 0 when parsing a single string.
	Line  int
	Token string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, reference %d %q: %v", e.Line, e.Position, e.Token, e.Err)
	}

	return fmt.Sprintf("reference %d %q: %v", e.Position, e.Token, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse reads a reference sequence such as "0, 4, 0x10".
func Parse(s string) ([]int64, error) {
	return parseLine(s, 0, 0)
}

// Read reads a reference sequence from r, one or more references per line.
func Read(r io.Reader) ([]int64, error) {
	refs := []int64{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		parsed, err := parseLine(line, lineNo, len(refs))
		if err != nil {
			return nil, err
		}
		refs = append(refs, parsed...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read references: %w", err)
	}

	return refs, nil
}

// Load reads a reference sequence from a file.
func Load(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference file: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Format renders references as a comma separated list.
func Format(refs []int64) string {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = strconv.FormatInt(ref, 10)
	}

	return strings.Join(parts, ",")
}

func parseLine(line string, lineNo, offset int) ([]int64, error) {
	tokens := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	refs := make([]int64, 0, len(tokens))
	for i, tok := range tokens {
		v, err := parseToken(tok)
		if err != nil {
			return nil, &ParseError{
				Position: offset + i + 1,
				Line:     lineNo,
				Token:    tok,
				Err:      fmt.Errorf("%w: %v", ErrMalformedReference, err),
			}
		}
		refs = append(refs, v)
	}

	return refs, nil
}

func parseToken(tok string) (int64, error) {
	sign := int64(1)
	body := tok
	if strings.HasPrefix(body, "-") {
		sign = -1
		body = body[1:]
	}

	base := 10
	switch {
	case len(body) > 2 && (body[:2] == "0x" || body[:2] == "0X"):
		base = 16
		body = body[2:]
	case len(body) > 2 && (body[:2] == "0b" || body[:2] == "0B"):
		base = 2
		body = body[2:]
	}

	if strings.HasPrefix(body, "-") || strings.HasPrefix(body, "+") {
		return 0, errSignAfterPrefix
	}

	v, err := strconv.ParseInt(body, base, 64)
	if err != nil {
		return 0, err
	}

	return sign * v, nil
}
