package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/birdayz/a85/pkg/app"
	"github.com/birdayz/a85/pkg/ascii85"
	"github.com/birdayz/a85/pkg/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type cmdResult struct {
	out string
	err string
}

func newConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func runCmd(t *testing.T, cfgPath, stdin string, args ...string) (cmdResult, error) {
	t.Helper()

	root := NewRootCommand("test", "HEAD")
	var out, errOut bytes.Buffer
	root.SetArgs(append([]string{"--config", cfgPath}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&errOut)

	err := root.ExecuteContext(context.Background())
	return cmdResult{out: out.String(), err: errOut.String()}, err
}

func TestEncodeArgs(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "", "encode", "Man", "")
	require.NoError(t, err)
	require.Equal(t, "9jqo^\n", res.out)

	res, err = runCmd(t, cfg, "", "e", "Ma")
	require.NoError(t, err)
	require.Equal(t, "9jn\n", res.out)
}

func TestDecodeArgs(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "", "decode", "9jqo^")
	require.NoError(t, err)
	require.Equal(t, "Man \n", res.out)
}

func TestEncodeStdinLines(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "Man \r\nMa\n", "encode")
	require.NoError(t, err)
	require.Equal(t, "9jqo^\n9jn\n", res.out)
}

func TestEncodeStdinFull(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "Man \nMa\n", "encode", "--input-mode", "full")
	require.NoError(t, err)
	require.Equal(t, ascii85.EncodeToString([]byte("Man \nMa"))+"\n", res.out)
}

func TestEncodeFiles(t *testing.T) {
	cfg := newConfigFile(t, "")
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	require.NoError(t, os.WriteFile(a, []byte{0, 0, 0, 0}, 0644))
	require.NoError(t, os.WriteFile(b, []byte{0xff, 0xff, 0xff, 0xff}, 0644))

	res, err := runCmd(t, cfg, "", "encode", "-f", a, "-f", b)
	require.NoError(t, err)
	require.Equal(t, "!!!!!\ns8W-!\n", res.out)
}

func TestOutputFormats(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "", "decode", "rr", "--output", "hex")
	require.NoError(t, err)
	require.Equal(t, "ff\n", res.out)

	res, err = runCmd(t, cfg, "", "decode", "9jqo^", "-o", "raw")
	require.NoError(t, err)
	require.Equal(t, "Man ", res.out)

	res, err = runCmd(t, cfg, "", "encode", "Man ", "-o", "json")
	require.NoError(t, err)
	require.Contains(t, res.out, `"output": "9jqo^"`)
	require.Contains(t, res.out, `"mode": "encode"`)
	require.Contains(t, res.out, `"source": "args"`)

	_, err = runCmd(t, cfg, "", "encode", "x", "-o", "yaml")
	require.ErrorContains(t, err, "must be one of")
}

func TestDecodeErrors(t *testing.T) {
	cfg := newConfigFile(t, "")

	_, err := runCmd(t, cfg, "", "decode", "9jqov")
	var corrupt *ascii85.CorruptInputError
	require.ErrorAs(t, err, &corrupt)
	require.Equal(t, 4, corrupt.Offset)
	require.ErrorIs(t, err, ascii85.ErrInvalidChar)

	_, err = runCmd(t, cfg, "", "decode", "uuuuu")
	require.ErrorIs(t, err, ascii85.ErrOverflow)

	_, err = runCmd(t, cfg, "", "decode", "rr")
	require.ErrorIs(t, err, app.ErrNotText)
}

func TestCompressionRoundTrip(t *testing.T) {
	cfg := newConfigFile(t, "")
	payload := strings.Repeat("armoured payload ", 32)

	for _, compression := range []string{"s2", "zstd"} {
		t.Run(compression, func(t *testing.T) {
			enc, err := runCmd(t, cfg, payload+"\n", "encode", "--compression", compression)
			require.NoError(t, err)

			encoded := strings.TrimSuffix(enc.out, "\n")
			require.NotContains(t, encoded, "\n")

			dec, err := runCmd(t, cfg, "", "decode", encoded, "--compression", compression)
			require.NoError(t, err)
			require.Equal(t, payload+"\n", dec.out)
		})
	}

	_, err := runCmd(t, cfg, "", "encode", "x", "--compression", "lz4")
	require.ErrorContains(t, err, `unsupported compression "lz4"`)
}

func TestMsgPackRoundTrip(t *testing.T) {
	cfg := newConfigFile(t, "")

	enc, err := runCmd(t, cfg, `{"id":1,"name":"a85"}`+"\n", "encode", "--msgpack")
	require.NoError(t, err)

	dec, err := runCmd(t, cfg, "", "decode", strings.TrimSuffix(enc.out, "\n"), "--msgpack")
	require.NoError(t, err)
	require.JSONEq(t, `{"id":1,"name":"a85"}`, dec.out)

	_, err = runCmd(t, cfg, "not json\n", "encode", "--msgpack")
	require.ErrorContains(t, err, "input is not JSON")
}

func TestProfileFromConfig(t *testing.T) {
	cfg := newConfigFile(t, `current-profile: hex
profiles:
  - name: hex
    output: hex
  - name: zstd
    compression: zstd
`)

	res, err := runCmd(t, cfg, "", "decode", "9jqo^")
	require.NoError(t, err)
	require.Equal(t, "4d616e20\n", res.out)

	// Flags win over the profile.
	res, err = runCmd(t, cfg, "", "decode", "9jqo^", "-o", "default")
	require.NoError(t, err)
	require.Equal(t, "Man \n", res.out)

	_, err = runCmd(t, cfg, "", "-p", "missing", "decode", "9jqo^")
	require.ErrorContains(t, err, `profile "missing" not found`)
}

func TestInteractive(t *testing.T) {
	cfg := newConfigFile(t, "")

	stdin := strings.Join([]string{
		"e Man ",
		"D 9jqo^",
		"x foo",
		"e",
		"d 9jqov",
		"E  Ma",
	}, "\n") + "\n"

	res, err := runCmd(t, cfg, stdin, "interactive")
	require.NoError(t, err)
	require.Equal(t, "9jqo^\nMan \n+AH8\n", res.out)

	lines := strings.Split(strings.TrimSuffix(res.err, "\n"), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, `Error! unknown ascii85 mode specified: "x"`, lines[0])
	require.Equal(t, "Error! too few arguments provided", lines[1])
	require.True(t, strings.HasPrefix(lines[2], "Error! failed to decode: "), lines[2])
	require.Contains(t, lines[2], "invalid character at input byte 4")
}

func TestConfigCommands(t *testing.T) {
	cfg := newConfigFile(t, "")

	res, err := runCmd(t, cfg, "", "config", "add-profile", "armoured", "--msgpack", "--compression", "zstd")
	require.NoError(t, err)
	require.Equal(t, "Added profile.\n", res.out)

	_, err = runCmd(t, cfg, "", "config", "add-profile", "armoured")
	require.ErrorContains(t, err, "exists already")

	_, err = runCmd(t, cfg, "", "config", "add-profile", "bad", "--compression", "lz4")
	require.ErrorContains(t, err, "unsupported compression")

	res, err = runCmd(t, cfg, "", "config", "use-profile", "armoured")
	require.NoError(t, err)
	require.Equal(t, "Switched to profile \"armoured\".\n", res.out)

	res, err = runCmd(t, cfg, "", "config", "current-context")
	require.NoError(t, err)
	require.Equal(t, "armoured\n", res.out)

	res, err = runCmd(t, cfg, "", "config", "get-profiles")
	require.NoError(t, err)
	require.Contains(t, res.out, "NAME")
	require.Contains(t, res.out, "* armoured")
	require.Contains(t, res.out, "msgpack,zstd,ascii85")

	res, err = runCmd(t, cfg, "", "config", "get-profiles", "--no-headers")
	require.NoError(t, err)
	require.NotContains(t, res.out, "NAME")

	_, err = runCmd(t, cfg, "", "config", "use-profile", "missing")
	require.Error(t, err)

	res, err = runCmd(t, cfg, "", "config", "remove-profile", "armoured")
	require.NoError(t, err)
	require.Equal(t, "Removed profile.\n", res.out)

	c, err := config.ReadConfig(cfg)
	require.NoError(t, err)
	require.Empty(t, c.Profiles)
	require.Empty(t, c.CurrentProfile)

	_, err = runCmd(t, cfg, "", "config", "remove-profile", "armoured")
	require.Error(t, err)
}

func TestConfigImport(t *testing.T) {
	cfg := newConfigFile(t, "")
	props := filepath.Join(t.TempDir(), "team.properties")
	require.NoError(t, os.WriteFile(props, []byte("output.format=hex\ncompression=s2\n"), 0644))

	res, err := runCmd(t, cfg, "", "config", "import", props, "--name", "team")
	require.NoError(t, err)
	require.Equal(t, "Wrote new entry to config file\n", res.out)

	c, err := config.ReadConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, "team", c.CurrentProfile)
	require.Len(t, c.Profiles, 1)
	require.Equal(t, "hex", c.Profiles[0].Output)
	require.Equal(t, "s2", c.Profiles[0].Compression)

	// Re-importing replaces the entry.
	res, err = runCmd(t, cfg, "", "config", "import", props, "--name", "team")
	require.NoError(t, err)
	require.Empty(t, res.out)

	bad := filepath.Join(t.TempDir(), "bad.properties")
	require.NoError(t, os.WriteFile(bad, []byte("brokers=localhost:9092\n"), 0644))
	_, err = runCmd(t, cfg, "", "config", "import", bad)
	require.ErrorContains(t, err, `unsupported property "brokers"`)
}

func TestCompletion(t *testing.T) {
	cfg := newConfigFile(t, "")

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		res, err := runCmd(t, cfg, "", "completion", shell)
		require.NoError(t, err, shell)
		require.Contains(t, res.out, "a85", shell)
	}

	res, err := runCmd(t, cfg, "", "completion", "bash")
	require.NoError(t, err)
	require.Contains(t, res.out, "__start_a85")

	_, err = runCmd(t, cfg, "", "completion", "tcsh")
	require.Error(t, err)
}
