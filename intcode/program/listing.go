package program

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/colorfulnotion/intcode/vmerrors"
)

// Parse reads a comma separated program listing. Whitespace around each field
// is ignored, as is a single empty field after a trailing comma.
func Parse(text string) ([]int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, vmerrors.ErrEmptyProgram
	}
	fields := strings.Split(text, ",")
	if strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}
	words := make([]int64, 0, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("field %d %q: %w", i, f, vmerrors.ErrBadListing)
		}
		words = append(words, v)
	}
	if len(words) == 0 {
		return nil, vmerrors.ErrEmptyProgram
	}
	return words, nil
}

// ParseReader reads r to the end and parses it as a listing.
func ParseReader(r io.Reader) ([]int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}

// Format renders words as a listing accepted by Parse.
func Format(words []int64) string {
	var sb strings.Builder
	for i, w := range words {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatInt(w, 10))
	}
	return sb.String()
}
