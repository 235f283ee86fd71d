package api

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// OutputFormat selects how CLI commands print server responses.
type OutputFormat string

const (
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatText OutputFormat = "text"
)

// DefaultOutput is used when --output is empty or unrecognized.
const DefaultOutput = OutputFormatYAML

// TextRenderer is implemented by responses that have a human-readable form,
// such as a reading laid out card by card. Values that don't implement it
// print as YAML in text mode.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

var outputFormat = DefaultOutput

// ParseOutputFormat maps a --output flag value to a format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case OutputFormatYAML, OutputFormatJSON, OutputFormatText:
		return f, nil
	case "":
		return DefaultOutput, nil
	default:
		return DefaultOutput, fmt.Errorf("unknown output format %q (want yaml, json or text)", s)
	}
}

// SetOutputFormat sets the format used by Output. Unknown values fall back
// to DefaultOutput.
func SetOutputFormat(s string) {
	f, _ := ParseOutputFormat(s)
	outputFormat = f
}

// CurrentOutputFormat returns the format used by Output.
func CurrentOutputFormat() OutputFormat {
	return outputFormat
}

// Output writes data to stdout in the configured format.
func Output(data any) error {
	return OutputTo(os.Stdout, outputFormat, data)
}

// OutputTo writes data to w in the given format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	case OutputFormatText:
		if r, ok := data.(TextRenderer); ok {
			return r.RenderText(w)
		}
		return OutputTo(w, OutputFormatYAML, data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
