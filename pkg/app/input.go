package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// Input is one payload and a label saying where it came from.
type Input struct {
	Source string
	Data   []byte
}

// InputOptions select where encode and decode read their payloads from.
type InputOptions struct {
	Args            []string
	Files           []string
	LineLengthLimit int
	Template        bool
}

// ReadInputs collects the payloads for one run. Positional args form a
// single input, joined with spaces. Otherwise each file is one input, and
// without files stdin is read in the active input mode.
//
// Line endings are trimmed from stdin input and from every decode input;
// files are encoded byte for byte.
func (a *App) ReadInputs(mode Mode, opts InputOptions) ([]Input, error) {
	var inputs []Input
	var err error

	switch {
	case len(opts.Args) > 0:
		inputs = []Input{{Source: "args", Data: []byte(strings.Join(opts.Args, " "))}}
	case len(opts.Files) > 0:
		inputs, err = readFiles(opts.Files)
	case a.InputMode() == InputModeFull:
		inputs, err = readFull(a.InReader)
	default:
		inputs, err = readLines(a.InReader, opts.LineLengthLimit)
	}
	if err != nil {
		return nil, err
	}

	if mode == ModeDecode {
		for i := range inputs {
			inputs[i].Data = trimLineEnding(inputs[i].Data)
		}
	}

	if opts.Template && mode == ModeEncode {
		for i := range inputs {
			inputs[i].Data, err = renderTemplate(inputs[i].Data, i)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", inputs[i].Source, err)
			}
		}
	}

	return inputs, nil
}

func readLines(reader io.Reader, bufferSize int) ([]Input, error) {
	scanner := bufio.NewScanner(reader)
	if bufferSize > 0 {
		scanner.Buffer(make([]byte, bufferSize), bufferSize)
	}

	var inputs []Input
	for scanner.Scan() {
		inputs = append(inputs, Input{
			Source: fmt.Sprintf("stdin:%d", len(inputs)+1),
			Data:   bytes.TrimSuffix(bytes.Clone(scanner.Bytes()), []byte("\r")),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning input failed: %w", err)
	}
	return inputs, nil
}

func readFull(reader io.Reader) ([]Input, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("unable to read data: %w", err)
	}
	return []Input{{Source: "stdin", Data: trimLineEnding(data)}}, nil
}

func readFiles(paths []string) ([]Input, error) {
	inputs := make([]Input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("unable to read file: %w", err)
		}
		inputs = append(inputs, Input{Source: path, Data: data})
	}
	return inputs, nil
}

func trimLineEnding(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

// renderTemplate runs data through the go template engine with sprig's
// hermetic functions; i is available as {{ .i }}.
func renderTemplate(data []byte, i int) ([]byte, error) {
	tpl, err := template.New("a85").Funcs(sprig.HermeticTxtFuncMap()).Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse go template: %w", err)
	}

	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, map[string]any{"i": i}); err != nil {
		return nil, fmt.Errorf("failed to execute go template: %w", err)
	}
	return buf.Bytes(), nil
}
