// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/watermgmt/internal/cli/config"
	sharedcfg "github.com/leapstack-labs/watermgmt/internal/config"
	"github.com/leapstack-labs/watermgmt/internal/testutil"
)

// SetupTestProject creates a temporary project whose watermgmt.yaml points
// every built-in backend at backendURL, makes it the working directory and
// loads it. extra is appended to the config file.
func SetupTestProject(t *testing.T, backendURL, extra string) string {
	t.Helper()

	tmpDir := t.TempDir()

	var b strings.Builder
	b.WriteString("backends:\n")
	for _, name := range []string{sharedcfg.BackendLocal, sharedcfg.BackendEast, sharedcfg.BackendWest} {
		fmt.Fprintf(&b, "  %s: %s\n", name, backendURL)
	}
	b.WriteString(extra)

	if err := os.WriteFile(filepath.Join(tmpDir, config.ConfigFileName), []byte(b.String()), 0o600); err != nil {
		t.Fatalf("failed to create %s: %v", config.ConfigFileName, err)
	}

	t.Chdir(tmpDir)
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	if _, err := config.LoadConfig("", nil); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	return tmpDir
}

// ExecuteCommand runs cmd with args and a test logger in its context, and
// returns what it wrote to stdout and stderr.
func ExecuteCommand(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	if args == nil {
		// cobra falls back to os.Args for nil
		args = []string{}
	}
	cmd.SetArgs(args)

	ctx := context.WithValue(context.Background(), config.LoggerKey(), testutil.NewTestLogger(t))
	err := cmd.ExecuteContext(ctx)
	return out.String(), errOut.String(), err
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
