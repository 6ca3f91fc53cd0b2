package config

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/birdayz/a85/pkg/app"
	"github.com/birdayz/a85/pkg/codec"
	"github.com/birdayz/a85/pkg/config"
)

// NewCommand returns the "a85 config" command with subcommands.
func NewCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Handle a85 configuration",
	}

	cmd.AddCommand(
		newCurrentContextCommand(a),
		newUseProfileCommand(a),
		newGetProfilesCommand(a),
		newAddProfileCommand(a),
		newRemoveProfileCommand(a),
		newSelectProfileCommand(a),
		newImportCommand(a),
	)

	return cmd
}

func newCurrentContextCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "current-context",
		Short: "Displays the current profile",
		Args:  cobra.ExactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.OutWriter, a.Cfg.CurrentProfile)
		},
	}
}

func newUseProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "use-profile [NAME]",
		Short:             "Sets the current profile in the configuration",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := a.Cfg.SetCurrentProfile(name); err != nil {
				return fmt.Errorf("unable to switch to profile %v: %w", name, err)
			}
			fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", name)
			return nil
		},
	}
}

func newGetProfilesCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get-profiles",
		Short: "Display profiles in the configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := app.NewTabWriter(a.OutWriter)
			if !a.NoHeaderFlag {
				fmt.Fprintln(w, "  NAME\tINPUT\tOUTPUT\tSTAGES\t")
			}
			for _, profile := range a.Cfg.Profiles {
				marker := "  "
				if profile.Name == a.Cfg.CurrentProfile {
					marker = "* "
				}
				fmt.Fprintf(w, "%s%s\t%s\t%s\t%s\t\n", marker, profile.Name,
					orDefault(profile.InputMode, string(app.InputModeLine)),
					orDefault(profile.Output, string(app.OutputFormatDefault)),
					strings.Join(stages(profile), ","))
			}
			return w.Flush()
		},
	}
	a.AddNoHeadersFlag(cmd)
	return cmd
}

func newAddProfileCommand(a *app.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add-profile [NAME]",
		Short:   "Add profile",
		Example: "a85 config add-profile armoured-events --msgpack --compression zstd",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if a.Cfg.HasProfile(name) {
				return fmt.Errorf("could not add profile: profile with name '%v' exists already", name)
			}

			profile := a.FlagProfile(name)
			if profile.Compression != codec.CompressionNone {
				if _, err := codec.NewCompression(profile.Compression); err != nil {
					return fmt.Errorf("could not add profile: %w", err)
				}
			}

			a.Cfg.Profiles = append(a.Cfg.Profiles, profile)
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Added profile.")
			return nil
		},
	}

	a.AddCodecFlags(cmd)
	return cmd
}

func newRemoveProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:               "remove-profile [NAME]",
		Short:             "remove profile",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: a.ValidProfileArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.Cfg.RemoveProfile(args[0]); err != nil {
				return err
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("unable to write config: %w", err)
			}
			fmt.Fprintln(a.OutWriter, "Removed profile.")
			return nil
		},
	}
}

func newSelectProfileCommand(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "select-profile",
		Short: "Interactively select a profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.Cfg.Profiles) == 0 {
				return fmt.Errorf("no profiles configured, add one with 'a85 config add-profile'")
			}
			return selectProfile(a, newProfileSelect(a))
		},
	}
}

// selector is satisfied by *promptui.Select.
type selector interface {
	Run() (int, string, error)
}

func newProfileSelect(a *app.App) *promptui.Select {
	var profileNames []string
	pos := 0
	for k, profile := range a.Cfg.Profiles {
		profileNames = append(profileNames, profile.Name)
		if profile.Name == a.Cfg.CurrentProfile {
			pos = k
		}
	}

	searcher := func(input string, index int) bool {
		profile := profileNames[index]
		name := strings.ReplaceAll(strings.ToLower(profile), " ", "")
		input = strings.ReplaceAll(strings.ToLower(input), " ", "")
		return strings.Contains(name, input)
	}

	return &promptui.Select{
		Label:     "Select profile",
		Items:     profileNames,
		Searcher:  searcher,
		Size:      10,
		CursorPos: pos,
	}
}

func selectProfile(a *app.App, s selector) error {
	_, selected, err := s.Run()
	if err != nil {
		// User cancelled (e.g. Ctrl-C). Not an error.
		return nil
	}

	if err := a.Cfg.SetCurrentProfile(selected); err != nil {
		return fmt.Errorf("unable to switch to profile %v: %w", selected, err)
	}
	fmt.Fprintf(a.OutWriter, "Switched to profile \"%v\".\n", selected)
	return nil
}

func newImportCommand(a *app.App) *cobra.Command {
	var nameFlag string

	cmd := &cobra.Command{
		Use:     "import FILE",
		Short:   "Import a profile from a .properties file",
		Example: "a85 config import team.properties --name team",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := nameFlag
			if name == "" {
				name = "imported"
			}

			profile, err := config.ImportProperties(args[0], name)
			if err != nil {
				return fmt.Errorf("failed to import %v: %w", args[0], err)
			}

			var found bool
			for i, p := range a.Cfg.Profiles {
				if p.Name == name {
					found = true
					a.Cfg.Profiles[i] = profile
					break
				}
			}

			if !found {
				fmt.Fprintln(a.OutWriter, "Wrote new entry to config file")
				a.Cfg.Profiles = append(a.Cfg.Profiles, profile)
			}

			if a.Cfg.CurrentProfile == "" {
				a.Cfg.CurrentProfile = profile.Name
			}
			if err := a.Cfg.Write(); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nameFlag, "name", "", "Name of the imported profile (default \"imported\")")
	return cmd
}

func stages(p *config.Profile) []string {
	var s []string
	switch {
	case p.Proto != nil && p.Proto.Type != "":
		s = append(s, "proto("+p.Proto.Type+")")
	case p.MsgPack:
		s = append(s, "msgpack")
	}
	if p.Compression != "" {
		s = append(s, p.Compression)
	}
	return append(s, "ascii85")
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
