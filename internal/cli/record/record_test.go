package record

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	embudocli "github.com/thenoetrevino/embudo/internal/cli"
	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/testutil/cli"
	"github.com/thenoetrevino/embudo/internal/types"
	"github.com/thenoetrevino/embudo/internal/user"
)

const sales = types.PipelineID(config.PipelineOpportunities)

func TestRecordCmd_Subcommands(t *testing.T) {
	cmd := RecordCmd()

	names := make([]string, 0)
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.ElementsMatch(t, []string{"add", "list", "show", "move", "history", "delete"}, names)
}

// ============================================================================
// ADD
// ============================================================================

func TestAdd_DefaultsToFirstStage(t *testing.T) {
	app := cli.SetupCLITest(t)
	t.Setenv(user.OwnerEnvVar, "marta")

	res := cli.ExecuteCLICommand(t, app, AddCmd(), "--title", "Licencias", "--company", "Grupo Andino", "--amount", "4800")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Created record")
	assert.Contains(t, res.Stdout, "Prospección")

	records, err := app.RecordService.ListRecords(context.Background(), sales)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "prospeccion", records[0].StageValue)
	assert.Equal(t, "Grupo Andino", records[0].Payload.Company)
	assert.InDelta(t, 4800, records[0].Payload.Amount, 0.001)
	assert.Equal(t, "marta", records[0].Payload.Owner)
}

func TestAdd_ExplicitOwner(t *testing.T) {
	app := cli.SetupCLITest(t)
	t.Setenv(user.OwnerEnvVar, "marta")

	res := cli.ExecuteCLICommand(t, app, AddCmd(), "--title", "Licencias", "--owner", "Lucía", "--quiet")
	require.NoError(t, res.Err)

	rec, err := app.RecordService.GetRecord(context.Background(), types.RecordID(strings.TrimSpace(res.Stdout)))
	require.NoError(t, err)
	assert.Equal(t, "Lucía", rec.Payload.Owner)
}

func TestAdd_StageByLabelWritesPrimary(t *testing.T) {
	app := cli.SetupCLITest(t)

	res := cli.ExecuteCLICommand(t, app, AddCmd(), "--title", "Integración", "--stage", "cerrada", "--quiet")
	require.NoError(t, res.Err)

	id := strings.TrimSpace(res.Stdout)
	rec, err := app.RecordService.GetRecord(context.Background(), types.RecordID(id))
	require.NoError(t, err)
	assert.Equal(t, "cerrada_ganada", rec.StageValue)
}

func TestAdd_RawAliasValue(t *testing.T) {
	app := cli.SetupCLITest(t)

	res := cli.ExecuteCLICommand(t, app, AddCmd(), "--title", "Capacitación", "--value", "cerrada_perdida", "--json")
	require.NoError(t, res.Err)

	out := cli.ParseJSON(t, res.Stdout)
	assert.Equal(t, true, out["success"])
	rec := out["record"].(map[string]any)
	assert.Equal(t, "cerrada", rec["stage"])
	assert.Equal(t, "cerrada_perdida", rec["stage_value"])
}

func TestAdd_Negative(t *testing.T) {
	app := cli.SetupCLITest(t)

	tests := []struct {
		name     string
		args     []string
		exitCode int
	}{
		{"blank title", []string{"--title", "   "}, embudocli.ExitValidation},
		{"unknown stage", []string{"--title", "x", "--stage", "ganada"}, embudocli.ExitNotFound},
		{"value outside pipeline", []string{"--title", "x", "--value", "mitigado"}, embudocli.ExitValidation},
		{"negative amount", []string{"--title", "x", "--amount=-5"}, embudocli.ExitValidation},
		{"unknown pipeline", []string{"--title", "x", "--pipeline", "nope"}, embudocli.ExitNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := cli.ExecuteCLICommand(t, app, AddCmd(), tt.args...)
			require.Error(t, res.Err)
			assert.Equal(t, tt.exitCode, res.ExitCode())
			assert.Contains(t, res.Stderr, "Error:")
		})
	}

	records, err := app.RecordService.ListRecords(context.Background(), sales)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAdd_PipelineFromEnv(t *testing.T) {
	app := cli.SetupCLITest(t)
	t.Setenv(embudocli.PipelineEnvVar, config.PipelineRisks)

	res := cli.ExecuteCLICommand(t, app, AddCmd(), "--title", "Crédito 4411")
	require.NoError(t, res.Err)

	records, err := app.RecordService.ListRecords(context.Background(), config.PipelineRisks)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "identificado", records[0].StageValue)
}

// ============================================================================
// LIST
// ============================================================================

func TestList_GroupsByStage(t *testing.T) {
	app := cli.SetupCLITest(t)
	cli.CreateTestRecord(t, app, sales, "Uno", "prospeccion")
	cli.CreateTestRecord(t, app, sales, "Dos", "cerrada_ganada")
	cli.CreateTestRecord(t, app, sales, "Tres", "cerrada_perdida")

	t.Run("human readable", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, ListCmd())
		require.NoError(t, res.Err)

		assert.Contains(t, res.Stdout, "3 records")
		assert.Contains(t, res.Stdout, "Cerrada (2)")
		assert.Contains(t, res.Stdout, "Prospección (1)")
		assert.Contains(t, res.Stdout, "Sin registros")
		assert.NotContains(t, res.Stdout, "Sin clasificar")
	})

	t.Run("json", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, ListCmd(), "--json")
		require.NoError(t, res.Err)

		out := cli.ParseJSON(t, res.Stdout)
		assert.EqualValues(t, 3, out["count"])
		columns := out["columns"].([]any)
		require.Len(t, columns, 5)

		last := columns[4].(map[string]any)
		assert.Equal(t, "cerrada", last["stage"])
		recs := last["records"].([]any)
		require.Len(t, recs, 2)
		assert.Equal(t, "Dos", recs[0].(map[string]any)["title"])
		assert.Equal(t, "Tres", recs[1].(map[string]any)["title"])
	})

	t.Run("quiet", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, ListCmd(), "--quiet")
		require.NoError(t, res.Err)
		assert.Len(t, strings.Fields(res.Stdout), 3)
	})

	t.Run("other pipeline is empty", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, ListCmd(), "--pipeline", config.PipelineRisks, "--quiet")
		require.NoError(t, res.Err)
		assert.Empty(t, strings.TrimSpace(res.Stdout))
	})
}

// ============================================================================
// SHOW / HISTORY / DELETE
// ============================================================================

func TestShow(t *testing.T) {
	app := cli.SetupCLITest(t)
	rec := cli.CreateTestRecord(t, app, sales, "Soporte premium", "propuesta")

	res := cli.ExecuteCLICommand(t, app, ShowCmd(), "--id", string(rec.ID))
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Soporte premium")
	assert.Contains(t, res.Stdout, "Propuesta (propuesta)")
	assert.Contains(t, res.Stdout, "USD 0.00")

	res = cli.ExecuteCLICommand(t, app, ShowCmd(), "--id", "missing")
	require.Error(t, res.Err)
	assert.Equal(t, embudocli.ExitNotFound, res.ExitCode())
}

func TestHistory(t *testing.T) {
	app := cli.SetupCLITest(t)
	rec := cli.CreateTestRecord(t, app, sales, "Renovación", "negociacion")

	res := cli.ExecuteCLICommand(t, app, HistoryCmd(), "--id", string(rec.ID))
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "No stage changes")

	_, err := app.RecordService.UpdateStage(context.Background(), rec.ID, "cerrada_ganada")
	require.NoError(t, err)

	res = cli.ExecuteCLICommand(t, app, HistoryCmd(), "--id", string(rec.ID), "--json")
	require.NoError(t, res.Err)
	out := cli.ParseJSON(t, res.Stdout)
	history := out["history"].([]any)
	require.Len(t, history, 1)
	entry := history[0].(map[string]any)
	assert.Equal(t, "negociacion", entry["from"])
	assert.Equal(t, "cerrada_ganada", entry["to"])
}

func TestDelete(t *testing.T) {
	app := cli.SetupCLITest(t)
	rec := cli.CreateTestRecord(t, app, sales, "Borrar", "prospeccion")

	t.Run("declined confirmation keeps the record", func(t *testing.T) {
		res := cli.ExecuteCLICommandWithInput(t, app, DeleteCmd(), "n\n", "--id", string(rec.ID))
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "Cancelled")

		_, err := app.RecordService.GetRecord(context.Background(), rec.ID)
		assert.NoError(t, err)
	})

	t.Run("confirmed", func(t *testing.T) {
		res := cli.ExecuteCLICommandWithInput(t, app, DeleteCmd(), "y\n", "--id", string(rec.ID))
		require.NoError(t, res.Err)
		assert.Contains(t, res.Stdout, "Deleted record 'Borrar'")

		_, err := app.RecordService.GetRecord(context.Background(), rec.ID)
		assert.Error(t, err)
	})

	t.Run("missing", func(t *testing.T) {
		res := cli.ExecuteCLICommand(t, app, DeleteCmd(), "--id", string(rec.ID), "--force")
		require.Error(t, res.Err)
		assert.Equal(t, embudocli.ExitNotFound, res.ExitCode())
	})
}
