package app

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/birdayz/a85/pkg/codec"
	"github.com/birdayz/a85/pkg/config"
	"github.com/birdayz/a85/pkg/proto"
)

// App holds all shared mutable state for the CLI. It is created once per
// invocation and threaded into every command package.
type App struct {
	// I/O
	OutWriter    io.Writer
	ErrWriter    io.Writer
	InReader     io.Reader
	ColorableOut io.Writer

	// Config state
	Cfg             config.Config
	CurrentProfile  *config.Profile
	CfgFile         string
	ProfileOverride string
	Verbose         bool

	// Codec flags, overlaid onto the active profile.
	Flags        config.Profile
	ProtoFiles   []string
	ProtoExclude []string
	ProtoType    string

	JSONFormatter *prettyjson.Formatter
	Logger        *zap.Logger

	// Display
	NoHeaderFlag bool

	// Root command reference (for completion generation)
	Root *cobra.Command
}

// New creates an App with sane defaults.
func New() *App {
	formatter := prettyjson.NewFormatter()
	formatter.DisabledColor = !isatty.IsTerminal(os.Stdout.Fd())

	return &App{
		OutWriter:     os.Stdout,
		ErrWriter:     os.Stderr,
		InReader:      os.Stdin,
		ColorableOut:  colorable.NewColorableStdout(),
		JSONFormatter: formatter,
		Logger:        zap.NewNop(),
	}
}

// InitConfig reads the config file, resolves the active profile and
// overlays the codec flags. Called by PersistentPreRunE on the root command.
func (a *App) InitConfig() error {
	var err error
	a.Cfg, err = config.ReadConfig(a.CfgFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	a.Cfg.ProfileOverride = a.ProfileOverride
	if a.ProfileOverride != "" && !a.Cfg.HasProfile(a.ProfileOverride) {
		return fmt.Errorf("profile %q not found in %s", a.ProfileOverride, a.Cfg.Path())
	}

	profile := a.Cfg.ActiveProfile()
	if profile == nil {
		profile = &config.Profile{}
	}
	a.CurrentProfile = overlay(profile, a.FlagProfile(profile.Name))

	a.Logger = NewLogger(a.ErrWriter, a.Verbose)
	a.Logger.Debug("config loaded",
		zap.String("path", a.Cfg.Path()),
		zap.String("profile", a.CurrentProfile.Name),
	)
	return nil
}

// FlagProfile returns the profile described by the codec flags alone.
func (a *App) FlagProfile(name string) *config.Profile {
	p := a.Flags
	p.Name = name
	if len(a.ProtoFiles) > 0 || len(a.ProtoExclude) > 0 || a.ProtoType != "" {
		p.Proto = &config.Proto{
			Include: a.ProtoFiles,
			Exclude: a.ProtoExclude,
			Type:    a.ProtoType,
		}
	}
	return &p
}

// overlay copies every field set in flags onto p.
func overlay(p, flags *config.Profile) *config.Profile {
	if flags.InputMode != "" {
		p.InputMode = flags.InputMode
	}
	if flags.Output != "" {
		p.Output = flags.Output
	}
	if flags.Compression != "" {
		p.Compression = flags.Compression
	}
	if flags.MsgPack {
		p.MsgPack = true
	}
	if flags.Concurrency != 0 {
		p.Concurrency = flags.Concurrency
	}
	if flags.Proto != nil {
		if p.Proto == nil {
			p.Proto = &config.Proto{}
		}
		if len(flags.Proto.Include) > 0 {
			p.Proto.Include = flags.Proto.Include
		}
		if len(flags.Proto.Exclude) > 0 {
			p.Proto.Exclude = flags.Proto.Exclude
		}
		if flags.Proto.Type != "" {
			p.Proto.Type = flags.Proto.Type
		}
	}
	return p
}

// Validate checks the active profile values that cobra cannot check at
// flag parsing time because they may come from the config file.
func (a *App) Validate() error {
	p := a.CurrentProfile
	if p.Output != "" {
		var f OutputFormat
		if err := f.Set(p.Output); err != nil {
			return fmt.Errorf("invalid output format %q: %w", p.Output, err)
		}
	}
	if p.InputMode != "" {
		var m InputMode
		if err := m.Set(p.InputMode); err != nil {
			return fmt.Errorf("invalid input mode %q: %w", p.InputMode, err)
		}
	}
	if p.Concurrency < 0 {
		return fmt.Errorf("invalid concurrency %d: must not be negative", p.Concurrency)
	}
	if p.MsgPack && p.Proto != nil && p.Proto.Type != "" {
		return fmt.Errorf("msgpack and proto-type cannot be combined")
	}
	return nil
}

// Output returns the effective output format.
func (a *App) Output() OutputFormat {
	if a.CurrentProfile == nil || a.CurrentProfile.Output == "" {
		return OutputFormatDefault
	}
	return OutputFormat(a.CurrentProfile.Output)
}

// InputMode returns the effective input mode.
func (a *App) InputMode() InputMode {
	if a.CurrentProfile == nil || a.CurrentProfile.InputMode == "" {
		return InputModeLine
	}
	return InputMode(a.CurrentProfile.InputMode)
}

// Concurrency returns how many inputs are processed at once.
func (a *App) Concurrency() int {
	if a.CurrentProfile == nil || a.CurrentProfile.Concurrency <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return a.CurrentProfile.Concurrency
}

// Pipeline builds the codec pipeline for the active profile: an optional
// framing stage (proto or msgpack), an optional compression stage and the
// Ascii85 stage.
func (a *App) Pipeline() (*codec.Pipeline, error) {
	p := a.CurrentProfile
	if p == nil {
		p = &config.Profile{}
	}
	pipe := codec.NewPipeline()

	switch {
	case p.Proto != nil && p.Proto.Type != "":
		reg, err := proto.NewDescriptorRegistry(p.Proto.Include, p.Proto.Exclude)
		if err != nil {
			return nil, fmt.Errorf("failed to load protobuf files: %w", err)
		}
		c, err := reg.Codec(p.Proto.Type)
		if err != nil {
			return nil, err
		}
		pipe = pipe.Then(codec.Stage{Name: "proto", Codec: c})
	case p.MsgPack:
		pipe = pipe.Then(codec.Stage{Name: "msgpack", Codec: codec.MsgPackCodec{}})
	}

	if p.Compression != codec.CompressionNone {
		c, err := codec.NewCompression(p.Compression)
		if err != nil {
			return nil, err
		}
		pipe = pipe.Then(codec.Stage{Name: p.Compression, Codec: c})
	}

	pipe = pipe.Then(codec.Stage{Name: "ascii85", Codec: codec.Ascii85Codec{}})
	a.Logger.Debug("pipeline ready", zap.Strings("stages", pipe.Names()))
	return pipe, nil
}

// AddCodecFlags installs the flags shared by the encode, decode and
// interactive commands on cmd.
func (a *App) AddCodecFlags(cmd *cobra.Command) {
	cmd.Flags().VarP((*OutputFormat)(&a.Flags.Output), "output", "o", "Set output format: default, raw, hex, json")
	cmd.Flags().Var((*InputMode)(&a.Flags.InputMode), "input-mode", "Scanning input mode: [line|full]")
	cmd.Flags().StringVar(&a.Flags.Compression, "compression", "", "Compress payloads before armouring: [s2|zstd]")
	cmd.Flags().BoolVar(&a.Flags.MsgPack, "msgpack", false, "Treat payloads as JSON that is framed as msgpack")
	cmd.Flags().IntVar(&a.Flags.Concurrency, "concurrency", 0, "Number of inputs processed in parallel (default GOMAXPROCS)")
	a.AddProtoFlags(cmd)

	mustRegister(cmd, "output", CompleteOutputFormat)
	mustRegister(cmd, "input-mode", CompleteInputMode)
	mustRegister(cmd, "compression", CompleteCompression)
}

// AddProtoFlags installs the shared protobuf flags on cmd.
func (a *App) AddProtoFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.ProtoFiles, "proto-include", []string{}, "Path to proto files")
	cmd.Flags().StringSliceVar(&a.ProtoExclude, "proto-exclude", []string{}, "Proto exclusions (path prefixes)")
	cmd.Flags().StringVar(&a.ProtoType, "proto-type", "", "Fully qualified name of the proto message type. Example: com.test.SampleMessage")
}

// AddNoHeadersFlag installs --no-headers on cmd.
func (a *App) AddNoHeadersFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&a.NoHeaderFlag, "no-headers", false, "Hide table headers")
}

// ValidProfileArgs provides shell completion for profile names.
func (a *App) ValidProfileArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	profiles := make([]string, 0, len(a.Cfg.Profiles))
	for _, profile := range a.Cfg.Profiles {
		profiles = append(profiles, profile.Name)
	}
	return profiles, cobra.ShellCompDirectiveNoFileComp
}

func mustRegister(cmd *cobra.Command, flag string, fn func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective)) {
	if err := cmd.RegisterFlagCompletionFunc(flag, fn); err != nil {
		panic(fmt.Sprintf("Failed to register flag completion: %v", err))
	}
}

const (
	TabwriterMinWidth = 6
	TabwriterWidth    = 4
	TabwriterPadding  = 3
	TabwriterPadChar  = ' '
	TabwriterFlags    = 0
)

// NewTabWriter creates a standard tabwriter for CLI output.
func NewTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, TabwriterMinWidth, TabwriterWidth, TabwriterPadding, TabwriterPadChar, TabwriterFlags)
}
