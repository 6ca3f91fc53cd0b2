package decode

import (
	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
)

// NewCommand returns the "a85 decode" command.
func NewCommand(a *app.App) *cobra.Command {
	var (
		fileFlag      []string
		lineLimitFlag int
	)

	cmd := &cobra.Command{
		Use:   "decode [TEXT...]",
		Short: "Decode Ascii85 text back to bytes",
		Long:  "Decode Ascii85 text back to bytes. Input is read like for encode; trailing line endings are ignored. Results that are not valid UTF-8 need --output raw or --output hex.",
		Example: `  a85 decode '9jqo^'
  a85 encode -f data.bin | a85 decode -o raw > data.copy
  a85 decode -f payload.txt --compression zstd -o raw`,
		Aliases: []string{"d"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Run(cmd.Context(), app.ModeDecode, app.InputOptions{
				Args:            args,
				Files:           fileFlag,
				LineLengthLimit: lineLimitFlag,
			})
		},
	}

	cmd.Flags().StringArrayVarP(&fileFlag, "file", "f", nil, "Read an input from a file. May be used multiple times.")
	cmd.Flags().IntVarP(&lineLimitFlag, "line-length-limit", "", 0, "line length limit in line input mode")
	a.AddCodecFlags(cmd)

	return cmd
}
