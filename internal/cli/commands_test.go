package cli_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embudocli "github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/testutil/cli"
)

func TestStagesCmd(t *testing.T) {
	app := cli.SetupCLITest(t)

	t.Run("default pipeline", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, embudocli.StagesCmd())
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "oportunidades: Oportunidades (default)")
		assert.Contains(t, res.Stdout, "cerrada_ganada, cerrada_perdida")
		assert.NotContains(t, res.Stdout, "riesgos")
	})

	t.Run("quiet lists stage ids in order", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, embudocli.StagesCmd(), "-p", config.PipelineRisks, "--quiet")
		require.NoError(t, res.Err)
		assert.Equal(t, []string{"identificado", "en_analisis", "mitigacion", "cerrado"}, strings.Fields(res.Stdout))
	})

	t.Run("all as json", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, embudocli.StagesCmd(), "--all", "--json")
		require.NoError(t, res.Err)
		out := cli.ParseJSON(t, res.Stdout)
		assert.Len(t, out["pipelines"].([]any), len(config.DefaultPipelines()))
	})

	t.Run("save writes the config file", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", t.TempDir())
		path, err := config.Path()
		require.NoError(t, err)

		res := cli.ExecuteCLICommand(t, app, embudocli.StagesCmd(), "--save", "--quiet")
		require.NoError(t, res.Err)
		assert.Equal(t, path, strings.TrimSpace(res.Stdout))
		assert.FileExists(t, path)
	})

	t.Run("unknown pipeline", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, embudocli.StagesCmd(), "-p", "nope")
		require.Error(t, res.Err)
		assert.Equal(t, embudocli.ExitNotFound, res.ExitCode())
	})
}

func TestSeedCmd(t *testing.T) {
	app := cli.SetupCLITest(t)
	ctx := context.Background()

	res := cli.ExecuteCLICommand(t, app, embudocli.SeedCmd(), "--quiet")
	require.NoError(t, res.Err)
	ids := strings.Fields(res.Stdout)

	records, err := app.RecordService.ListRecords(ctx, config.PipelineOpportunities)
	require.NoError(t, err)
	assert.Len(t, records, len(ids))
	assert.NotEmpty(t, records)

	res = cli.ExecuteCLICommand(t, app, embudocli.SeedCmd(), "-p", config.PipelineRisks, "--json")
	require.NoError(t, res.Err)
	out := cli.ParseJSON(t, res.Stdout)
	assert.NotEmpty(t, out["ids"])
}

func TestSeedCmd_IfEmpty(t *testing.T) {
	app := cli.SetupCLITest(t)

	first := cli.ExecuteCLICommand(t, app, embudocli.SeedCmd(), "-p", config.PipelineAgro, "--if-empty", "--quiet")
	require.NoError(t, first.Err)
	seeded := len(strings.Fields(first.Stdout))
	assert.NotZero(t, seeded)

	second := cli.ExecuteCLICommand(t, app, embudocli.SeedCmd(), "-p", config.PipelineAgro, "--if-empty")
	require.NoError(t, second.Err)
	assert.Contains(t, second.Stdout, "Created 0 records on agro")

	count, err := app.RecordService.CountRecords(context.Background(), config.PipelineAgro)
	require.NoError(t, err)
	assert.Equal(t, seeded, count)
}

func TestSeedCmd_CustomPipelineGetsOneRecordPerStage(t *testing.T) {
	cfg := config.Default()
	cfg.Pipelines = append(cfg.Pipelines, config.PipelineConfig{
		ID:    "soporte",
		Label: "Soporte",
		Stages: []config.StageConfig{
			{ID: "abierto", Label: "Abierto", Values: []string{"abierto"}},
			{ID: "resuelto", Label: "Resuelto", Values: []string{"resuelto", "cerrado"}},
		},
	})
	app := cli.SetupCLITestWithConfig(t, cfg)

	res := cli.ExecuteCLICommand(t, app, embudocli.SeedCmd(), "-p", "soporte")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Created 2 records on soporte")

	records, err := app.RecordService.ListRecords(context.Background(), "soporte")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "abierto", records[0].StageValue)
	assert.Equal(t, "resuelto", records[1].StageValue)
}

func TestGetCLIFromContext_InjectedAppIsNotClosed(t *testing.T) {
	app := cli.SetupCLITest(t)

	c, err := embudocli.GetCLIFromContext(embudocli.WithApp(context.Background(), app))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	// Still usable after the CLI closed
	_, err = app.RecordService.ListRecords(context.Background(), config.PipelineOpportunities)
	assert.NoError(t, err)
}

func TestBoardCmd_UnknownPipeline(t *testing.T) {
	app := cli.SetupCLITest(t)

	res := cli.ExecuteCLICommand(t, app, embudocli.BoardCmd(), "--pipeline", "nope")
	require.Error(t, res.Err)
	assert.Equal(t, embudocli.ExitNotFound, res.ExitCode())
	assert.Contains(t, res.Stderr, "embudo stages --all")
}
