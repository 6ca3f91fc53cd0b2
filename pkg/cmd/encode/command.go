package encode

import (
	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
)

// NewCommand returns the "a85 encode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		fileFlag      []string
		lineLimitFlag int
		templateFlag  bool
	)

	cmd := &cobra.Command{
		Use:   "encode [TEXT...]",
		Short: "Encode bytes as Ascii85 text",
		Long:  "Encode bytes as Ascii85 text. Positional arguments are joined with spaces and encoded as one input. Without arguments each --file is one input, otherwise stdin is read one input per line (or as a whole with --input-mode full).",
		Example: `  a85 encode 'Man '
  echo hello | a85 encode
  a85 encode -f image.png --compression zstd
  echo '{"id":1}' | a85 encode --msgpack`,
		Aliases: []string{"e"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Run(cmd.Context(), app.ModeEncode, app.InputOptions{
				Args:            args,
				Files:           fileFlag,
				LineLengthLimit: lineLimitFlag,
				Template:        templateFlag,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&fileFlag, "file", "f", nil, "Read an input from a file. May be used multiple times.")
	cmd.Flags().IntVarP(&lineLimitFlag, "line-length-limit", "", 0, "line length limit in line input mode")
	cmd.Flags().BoolVar(&templateFlag, "template", false, "run input through go template engine")
	a.AddCodecFlags(cmd)

	return cmd
}
