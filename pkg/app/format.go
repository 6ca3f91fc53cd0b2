package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/codec"
)

// OutputFormat controls how results are printed.
type OutputFormat string

const (
	OutputFormatDefault OutputFormat = "default"
	OutputFormatRaw     OutputFormat = "raw"
	OutputFormatHex     OutputFormat = "hex"
	OutputFormatJSON    OutputFormat = "json"
)

func (e *OutputFormat) String() string {
	return string(*e)
}

func (e *OutputFormat) Set(v string) error {
	switch v {
	case "default", "raw", "hex", "json":
		*e = OutputFormat(v)
		return nil
	default:
		return fmt.Errorf("must be one of: default, raw, hex, json")
	}
}

func (e *OutputFormat) Type() string {
	return "OutputFormat"
}

// CompleteOutputFormat provides shell completion for --output.
func CompleteOutputFormat(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"default", "raw", "hex", "json"}, cobra.ShellCompDirectiveNoFileComp
}

// InputMode controls how stdin is split into inputs.
type InputMode string

const (
	InputModeLine InputMode = "line"
	InputModeFull InputMode = "full"
)

func (e *InputMode) String() string {
	return string(*e)
}

func (e *InputMode) Set(v string) error {
	switch v {
	case "line", "full":
		*e = InputMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of: line, full")
	}
}

func (e *InputMode) Type() string {
	return "InputMode"
}

// CompleteInputMode provides shell completion for --input-mode.
func CompleteInputMode(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{"line", "full"}, cobra.ShellCompDirectiveNoFileComp
}

// CompleteCompression provides shell completion for --compression.
func CompleteCompression(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return codec.Compressions, cobra.ShellCompDirectiveNoFileComp
}

// FormatJSON unmarshals data to an interface for JSON re-encoding.
// Returns the string representation if not valid JSON.
func FormatJSON(data []byte) any {
	var i any
	if err := json.Unmarshal(data, &i); err != nil {
		return string(data)
	}
	return i
}
