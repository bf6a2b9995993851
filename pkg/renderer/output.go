// Package renderer serializes report outputs to JSON and YAML.
package renderer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ErrNilOutput is returned when nil is passed to render functions.
var ErrNilOutput = errors.New("report output is nil")

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// Output is implemented by computed reports that can be serialized.
// ToJSON and ToYAML return values passed to json.Marshal and yaml.Marshal.
type Output interface {
	// ReportName identifies the report (e.g. "dashboard").
	ReportName() string

	ToJSON() any
	ToYAML() any
}

// RenderJSON serializes an output to indented JSON bytes.
func RenderJSON(o Output) ([]byte, error) {
	if o == nil {
		return nil, ErrNilOutput
	}

	data, err := json.MarshalIndent(o.ToJSON(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal %s to JSON: %w", o.ReportName(), err)
	}

	return data, nil
}

// RenderYAML serializes an output to YAML bytes.
func RenderYAML(o Output) ([]byte, error) {
	if o == nil {
		return nil, ErrNilOutput
	}

	data, err := yaml.Marshal(o.ToYAML())
	if err != nil {
		return nil, fmt.Errorf("marshal %s to YAML: %w", o.ReportName(), err)
	}

	return data, nil
}

// Write renders o in the given format to w. FormatText is not handled here.
func Write(w io.Writer, format string, o Output) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = RenderJSON(o)
	case FormatYAML:
		data, err = RenderYAML(o)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	if err != nil {
		return err
	}

	if format == FormatJSON {
		data = append(data, '\n')
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	return nil
}
