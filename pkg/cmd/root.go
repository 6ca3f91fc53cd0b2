package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
	"github.com/birdayz/a85/pkg/cmd/completion"
	a85config "github.com/birdayz/a85/pkg/cmd/config"
	"github.com/birdayz/a85/pkg/cmd/decode"
	"github.com/birdayz/a85/pkg/cmd/encode"
	"github.com/birdayz/a85/pkg/cmd/interactive"
)

// Execute is the single entry point for the CLI.
func Execute(version, commit string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(version, commit).ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree around a fresh App.
func NewRootCommand(version, commit string) *cobra.Command {
	a := app.New()

	root := &cobra.Command{
		Use:          "a85",
		Short:        "Ascii85 encoder and decoder",
		Long:         "Convert arbitrary bytes to printable Ascii85 text ('!' to 'u') and back, optionally framing payloads as msgpack or protobuf and compressing them first.",
		Version:      fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.OutWriter = cmd.OutOrStdout()
			a.ErrWriter = cmd.ErrOrStderr()
			a.InReader = cmd.InOrStdin()

			if a.OutWriter != os.Stdout {
				a.ColorableOut = a.OutWriter
				a.JSONFormatter.DisabledColor = true
			}

			return a.InitConfig()
		},
	}

	root.PersistentFlags().StringVar(&a.CfgFile, "config", "", "config file (default is $HOME/.a85/config)")
	root.PersistentFlags().StringVarP(&a.ProfileOverride, "profile", "p", "", "set a temporary current profile")
	root.PersistentFlags().BoolVarP(&a.Verbose, "verbose", "v", false, "Write debug logs to stderr")

	a.Root = root
	root.AddCommand(
		encode.NewCommand(a),
		decode.NewCommand(a),
		interactive.NewCommand(a),
		a85config.NewCommand(a),
		completion.NewCommand(a),
	)

	return root
}
