package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/watermgmt/internal/cli/config"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(config.ResetConfig)
	cfgFile = ""

	cmd := NewRootCmd()
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), errOut.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := NewRootCmd()
	for _, name := range []string{"version", "serve", "panels", "probe", "predict", "completion"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	sub, _, err := cmd.Find([]string{"ui"})
	require.NoError(t, err)
	assert.Equal(t, "serve", sub.Name())
}

func TestRoot_Version(t *testing.T) {
	t.Chdir(t.TempDir())
	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "watermgmt v"+Version)
}

func TestRoot_Completion(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "watermgmt")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}

func TestRoot_ConfigFlagAndOutput(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backends:\n  west: http://west.example.test\n"), 0o600))

	out, errOut, err := run(t, "--config", path, "-o", "json", "-v", "panels")
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	found := false
	for _, r := range rows {
		if r["tab"] == "drought" {
			found = true
			assert.Equal(t, "http://west.example.test", r["origin"])
		}
	}
	assert.True(t, found)
	assert.Contains(t, errOut, "Using config file: "+path)
}

func TestRoot_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	_, _, err := run(t, "--log-level", "loud", "panels")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}
