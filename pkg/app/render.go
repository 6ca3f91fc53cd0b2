package app

import (
	"encoding/hex"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotText means a result is fine but cannot be shown as text.
var ErrNotText = errors.New("result is not valid UTF-8 text")

// Render prints r in the given format.
func (a *App) Render(r Result, format OutputFormat) error {
	switch format {
	case OutputFormatRaw:
		_, err := a.OutWriter.Write(r.Data)
		return err
	case OutputFormatHex:
		_, err := fmt.Fprintln(a.OutWriter, hex.EncodeToString(r.Data))
		return err
	case OutputFormatJSON:
		return a.renderJSON(r)
	default:
		if !utf8.Valid(r.Data) {
			return fmt.Errorf("%s: %w, use --output raw or --output hex", r.Source, ErrNotText)
		}
		_, err := fmt.Fprintln(a.OutWriter, string(r.Data))
		return err
	}
}

func (a *App) renderJSON(r Result) error {
	obj := map[string]any{
		"source": r.Source,
		"mode":   r.Mode.String(),
	}
	if utf8.Valid(r.Data) {
		obj["output"] = FormatJSON(r.Data)
	} else {
		obj["output_hex"] = hex.EncodeToString(r.Data)
	}

	b, err := a.JSONFormatter.Marshal(obj)
	if err != nil {
		return fmt.Errorf("could not encode JSON data: %w", err)
	}
	if _, err := a.ColorableOut.Write(b); err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.OutWriter)
	return err
}
