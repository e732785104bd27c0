package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drisen/mylib/internal/testutils"
	"github.com/drisen/mylib/internal/timeconv"
)

// executeCommand executes the root command with args and captures its
// output. Global flag state is reset so tests do not leak into each other.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	cfgPath = ""
	zoneName = ""
	verbose = 0
	credsFile = ""
	credsInteractive = false
	credsSecret = ""
	credsJSON = false
	histBreaks = ""
	whenIn = "auto"
	whenLayout = timeconv.DefaultLayout
	whenMillis = false
	whenEpoch = false
}

// isolateHome points $HOME at a temp dir so tests never touch the real
// config or credentials files.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	cleanup := testutils.SetEnv(t, map[string]string{"HOME": home})
	t.Cleanup(cleanup)
	return home
}

func TestVersionCommand(t *testing.T) {
	isolateHome(t)

	output, err := executeCommand(t, "version")
	require.NoError(t, err)
	assert.Contains(t, output, "mylib v")
}

func TestRootShowsHelp(t *testing.T) {
	isolateHome(t)

	output, err := executeCommand(t)
	require.NoError(t, err)
	assert.Contains(t, output, "credential store")
}

func TestUnknownZoneFails(t *testing.T) {
	isolateHome(t)

	_, err := executeCommand(t, "--zone", "Nowhere/Special", "version")
	assert.Error(t, err)
}

func TestConfigFileSetsZone(t *testing.T) {
	home := isolateHome(t)
	cfgFile := filepath.Join(home, ".mylib.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("home_zone: UTC\n"), 0600))

	output, err := executeCommand(t, "when", "1554121800000")
	require.NoError(t, err)
	assert.Contains(t, output, "2019-04-01T12:30:00")
}
