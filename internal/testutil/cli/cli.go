// Package cli holds helpers for testing cobra commands against an
// in-memory application.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/embudo/internal/app"
	embudocli "github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/database"
	"github.com/thenoetrevino/embudo/internal/models"
	recordservice "github.com/thenoetrevino/embudo/internal/services/record"
	"github.com/thenoetrevino/embudo/internal/types"
)

// Result is the captured output of one command execution
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExitCode returns the process exit code the command would produce
func (r Result) ExitCode() int {
	return embudocli.ExitCodeFor(r.Err)
}

// SetupCLITest creates an application over an in-memory database with the
// default configuration. It is closed when the test ends.
func SetupCLITest(t *testing.T) *app.App {
	t.Helper()
	return SetupCLITestWithConfig(t, config.Default())
}

// SetupCLITestWithConfig is SetupCLITest with an explicit configuration
func SetupCLITestWithConfig(t *testing.T, cfg *config.Config) *app.App {
	t.Helper()

	cfg.DatabasePath = database.MemoryPath
	a, err := app.Open(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = a.Close()
	})
	return a
}

// ExecuteCLICommand runs cmd with args against testApp
func ExecuteCLICommand(t *testing.T, testApp *app.App, cmd *cobra.Command, args ...string) Result {
	t.Helper()
	return ExecuteCLICommandWithInput(t, testApp, cmd, "", args...)
}

// ExecuteCLICommandWithInput runs cmd with args and stdin content
func ExecuteCLICommandWithInput(t *testing.T, testApp *app.App, cmd *cobra.Command, stdin string, args ...string) Result {
	t.Helper()

	if testApp == nil {
		t.Fatal("testApp cannot be nil - SetupCLITest must be called first")
	}

	// cobra falls back to os.Args when args is nil
	if args == nil {
		args = []string{}
	}

	var stdout, stderr bytes.Buffer
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))

	// Disable usage output on error for cleaner test output
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	ctx := embudocli.WithApp(context.Background(), testApp)
	err := cmd.ExecuteContext(ctx)

	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// ParseJSON parses JSON output from CLI commands
func ParseJSON(t *testing.T, output string) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("Failed to parse JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// CreateTestRecord creates a record through the record service
func CreateTestRecord(t *testing.T, testApp *app.App, pipeline types.PipelineID, title, value string) *models.CardRecord {
	t.Helper()

	rec, err := testApp.RecordService.CreateRecord(context.Background(), recordservice.CreateRecordRequest{
		Pipeline:   pipeline,
		Title:      title,
		StageValue: value,
	})
	require.NoError(t, err)
	return rec
}
