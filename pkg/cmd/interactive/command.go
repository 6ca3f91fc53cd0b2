package interactive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
	"github.com/birdayz/a85/pkg/codec"
)

const promptLabel = "Please enter 'd' or 'e' followed by a string of text to decode or encode respectively"

// NewCommand returns the "a85 interactive" command.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Encode or decode requests typed one per line",
		Long: `Read requests of the form "e <text>" or "d <text>" and print each result.
On a terminal a prompt is shown until Ctrl-C or Ctrl-D; otherwise every line of stdin is one request.
Failed requests are reported and processing continues.`,
		Example: `  a85 interactive
  printf 'e Man \nd 9jqo^\n' | a85 interactive`,
		Aliases: []string{"i"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Validate(); err != nil {
				return err
			}
			pipe, err := a.Pipeline()
			if err != nil {
				return err
			}

			if isTerminal(a.InReader) {
				return promptLoop(a, pipe, &promptui.Prompt{Label: promptLabel})
			}
			return scanLoop(a, pipe)
		},
	}

	a.AddCodecFlags(cmd)
	return cmd
}

// prompter is satisfied by *promptui.Prompt.
type prompter interface {
	Run() (string, error)
}

func promptLoop(a *app.App, c codec.Codec, p prompter) error {
	for {
		line, err := p.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("prompt failed: %w", err)
		}
		handle(a, c, line)
	}
}

func scanLoop(a *app.App, c codec.Codec) error {
	scanner := bufio.NewScanner(a.InReader)
	for scanner.Scan() {
		handle(a, c, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanning input failed: %w", err)
	}
	return nil
}

// handle answers one request. Errors are printed, never returned, so one
// bad request does not end the session.
func handle(a *app.App, c codec.Codec, line string) {
	mode, payload, err := app.ParseRequest(line)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error! %v\n", err)
		return
	}

	out, err := mode.Run(c, payload)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error! failed to %v: %v\n", mode, err)
		return
	}

	if err := a.Render(app.Result{Source: "interactive", Mode: mode, Data: out}, a.Output()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error! %v\n", err)
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
