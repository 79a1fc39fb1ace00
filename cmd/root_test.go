package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/embudo/internal/cli"
	testcli "github.com/thenoetrevino/embudo/internal/testutil/cli"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := NewRootCmd()

	names := make([]string, 0)
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"board", "record", "stages", "seed"} {
		assert.Contains(t, names, want)
	}
	assert.NotNil(t, root.Flags().Lookup("pipeline"))
}

func TestRootCmd_RunsSubcommandWithInjectedApp(t *testing.T) {
	app := testcli.SetupCLITest(t)

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"seed", "--quiet"})

	err := root.ExecuteContext(cli.WithApp(context.Background(), app))
	require.NoError(t, err)
	assert.NotEmpty(t, stdout.String())
}

func TestRootCmd_UnknownPipelineExitCode(t *testing.T) {
	app := testcli.SetupCLITest(t)

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--pipeline", "nope"})

	err := root.ExecuteContext(cli.WithApp(context.Background(), app))
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))
}
