package metrics

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

// ErrMalformedInput is wrapped by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

//go:embed schema/rows.json
var rowsSchema string

var rowsSchemaLoader = gojsonschema.NewStringLoader(rowsSchema)

// localTimestampLayout is the timezone-less timestamp some gateways return; it is read as UTC.
const localTimestampLayout = "2006-01-02T15:04:05.999999999"

// MalformedInputError reports a row sequence that is structurally invalid.
type MalformedInputError struct {
	Problems []string
}

func (e *MalformedInputError) Error() string {
	if len(e.Problems) == 0 {
		return ErrMalformedInput.Error()
	}

	return fmt.Sprintf("%s: %s", ErrMalformedInput, strings.Join(e.Problems, "; "))
}

// Unwrap returns ErrMalformedInput.
func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// wireRow is the external row shape. Every field is optional.
type wireRow struct {
	Amount    *float64 `json:"amount"`
	Grade     *float64 `json:"grade"`
	Path      *string  `json:"path"`
	CreatedAt *string  `json:"createdAt"`
	Type      *string  `json:"type"`
	IsDone    *bool    `json:"isDone"`
}

// DecodeRows validates raw against the row schema and normalizes it.
// Missing and null fields decode to zero values and a nil grade.
func DecodeRows(raw []byte) ([]Row, error) {
	result, err := gojsonschema.Validate(rowsSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, &MalformedInputError{Problems: []string{err.Error()}}
	}

	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}

		return nil, &MalformedInputError{Problems: problems}
	}

	var wire []wireRow

	err = json.Unmarshal(raw, &wire)
	if err != nil {
		return nil, &MalformedInputError{Problems: []string{err.Error()}}
	}

	rows := make([]Row, 0, len(wire))

	for i, w := range wire {
		row, convErr := w.normalize()
		if convErr != nil {
			return nil, &MalformedInputError{Problems: []string{fmt.Sprintf("row %d: %v", i, convErr)}}
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func (w wireRow) normalize() (Row, error) {
	row := Row{
		Grade:  w.Grade,
		IsDone: w.IsDone,
	}

	if w.Amount != nil {
		row.Amount = int64(math.Round(*w.Amount))
	}

	if w.Path != nil {
		row.Path = *w.Path
	}

	if w.Type != nil {
		row.Type = TransactionType(*w.Type)
	}

	if w.CreatedAt != nil && *w.CreatedAt != "" {
		ts, err := ParseTimestamp(*w.CreatedAt)
		if err != nil {
			return Row{}, err
		}

		row.CreatedAt = ts
	}

	return row, nil
}

// ParseTimestamp parses an ISO-8601 timestamp: RFC 3339 with optional
// fractional seconds, a timestamp without zone (read as UTC), or a bare date.
func ParseTimestamp(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, localTimestampLayout, time.DateOnly} {
		ts, err := time.Parse(layout, s)
		if err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("createdAt %q is not an ISO-8601 timestamp", s)
}
