package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredsSetGetRoundTrip(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	output, err := executeCommand(t, "creds", "set", "mail", "alice",
		"--secret", "hunter2", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, "Credentials saved to "+file)

	output, err = executeCommand(t, "creds", "get", "mail", "alice", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "alice\thunter2\n", output)

	// Username may be omitted when only one is stored.
	output, err = executeCommand(t, "creds", "get", "mail", "--file", file)
	require.NoError(t, err)
	assert.Equal(t, "alice\thunter2\n", output)
}

func TestCredsGetNotFound(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	require.NoError(t, os.WriteFile(file,
		[]byte(`{"mail": {"alice": {"secret": "hunter2"}}}`), 0600))

	_, err := executeCommand(t, "creds", "get", "mail", "bob", "--file", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestCredsGetMissingFile(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	_, err := executeCommand(t, "creds", "get", "mail", "--file", file)
	assert.Error(t, err)
}

func TestCredsGetMalformedFile(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(file, []byte("not json"), 0600))

	_, err := executeCommand(t, "creds", "get", "mail", "--file", file)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestCredsRemove(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	_, err := executeCommand(t, "creds", "set", "mail", "alice", "--secret", "hunter2", "--file", file)
	require.NoError(t, err)

	output, err := executeCommand(t, "creds", "remove", "mail", "alice", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, "removed")

	_, err = executeCommand(t, "creds", "get", "mail", "alice", "--file", file)
	assert.Error(t, err)
}

func TestCredsListMasksSecrets(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	_, err := executeCommand(t, "creds", "set", "mail", "alice",
		"--secret", "super-secret-value", "--file", file)
	require.NoError(t, err)

	output, err := executeCommand(t, "creds", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, "mail")
	assert.Contains(t, output, "alice")
	assert.NotContains(t, output, "super-secret-value")
	assert.Contains(t, output, "supe...alue")
}

func TestCredsListEmpty(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	output, err := executeCommand(t, "creds", "list", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, "No credentials stored.")
}

func TestCredsListJSON(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	_, err := executeCommand(t, "creds", "set", "mail", "alice", "--secret", "hunter2", "--file", file)
	require.NoError(t, err)

	output, err := executeCommand(t, "creds", "list", "--json", "--file", file)
	require.NoError(t, err)
	assert.Contains(t, output, `"mail"`)
	assert.Contains(t, output, `"secret"`)
}

func TestCredsSetRequiresSecret(t *testing.T) {
	isolateHome(t)
	file := filepath.Join(t.TempDir(), "creds.json")

	// Piped empty stdin: the fallback prompt reads nothing.
	_, err := executeCommand(t, "creds", "set", "mail", "alice", "--file", file)
	assert.Error(t, err)
}

func TestMask(t *testing.T) {
	assert.Equal(t, "***", mask("short"))
	assert.Equal(t, "***", mask(""))
	assert.Equal(t, "hunt...r222", mask("hunter2r222"))
}
