package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thenoetrevino/embudo/internal/config"
	"github.com/thenoetrevino/embudo/internal/models"
	recordservice "github.com/thenoetrevino/embudo/internal/services/record"
	"github.com/thenoetrevino/embudo/internal/types"
)

// seedRecord is one demo record; Value is a raw status value
type seedRecord struct {
	Title   string
	Value   string
	Company string
	Owner   string
	Amount  float64
	Notes   string
}

var seedData = map[string][]seedRecord{
	config.PipelineOpportunities: {
		{Title: "Licencias anuales", Value: "prospeccion", Company: "Grupo Andino", Owner: "lucia", Amount: 4800},
		{Title: "Migración a la nube", Value: "calificacion", Company: "Banco Sur", Owner: "marco", Amount: 32000},
		{Title: "Soporte premium", Value: "propuesta", Company: "Hotel Mirador", Owner: "lucia", Amount: 7200,
			Notes: "## Propuesta\n\n- 24/7\n- SLA de 4 horas"},
		{Title: "Renovación de contrato", Value: "negociacion", Company: "Logística Norte", Owner: "ana", Amount: 15000},
		{Title: "Integración ERP", Value: "cerrada_ganada", Company: "Textiles Lima", Owner: "marco", Amount: 54000},
		{Title: "Capacitación", Value: "cerrada_perdida", Company: "Colegio San José", Owner: "ana", Amount: 2100},
	},
	config.PipelineRisks: {
		{Title: "Crédito 4411", Value: "identificado", Company: "Agroexport SAC", Owner: "rosa", Amount: 120000},
		{Title: "Garantía vencida", Value: "en_analisis", Company: "Minera Alta", Owner: "rosa", Amount: 80000},
		{Title: "Tipo de cambio", Value: "mitigacion", Owner: "jorge"},
		{Title: "Proveedor único", Value: "mitigado", Company: "Envases del Pacífico", Owner: "jorge"},
		{Title: "Litigio laboral", Value: "descartado", Owner: "rosa"},
	},
	config.PipelineAgro: {
		{Title: "Riego tecnificado", Value: "contacto", Company: "Finca El Sol", Owner: "pedro", Amount: 12500},
		{Title: "Semillas certificadas", Value: "visita", Company: "Cooperativa Valle Verde", Owner: "pedro", Amount: 6400},
		{Title: "Fertilizantes", Value: "cotizacion", Company: "Hacienda Rosales", Owner: "elena", Amount: 9100},
		{Title: "Drones de fumigación", Value: "negociacion", Company: "Agrícola Chavimochic", Owner: "elena", Amount: 41000},
	},
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill a pipeline with demo records",
		Long: `Create demo records on a pipeline so the board has something to show.
Pipelines without built-in demo data get one record per stage.

Examples:
  embudo seed
  embudo seed --pipeline agro --if-empty`,
		Args: cobra.NoArgs,
		RunE: runSeed,
	}

	AddPipelineFlag(cmd)
	cmd.Flags().Bool("if-empty", false, "Only seed when the pipeline has no records yet")
	AddOutputFlags(cmd)

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	formatter := NewFormatter(cmd)

	cliInstance, err := GetCLIFromContext(ctx)
	if err != nil {
		return formatter.Fail("INITIALIZATION_ERROR", ExitError, err)
	}
	defer func() { _ = cliInstance.Close() }()

	cfg := cliInstance.Config()
	pipeline, err := GetPipelineID(cmd, cfg)
	if err != nil {
		return formatter.Fail("PIPELINE_NOT_FOUND", ExitCodeFor(err), err)
	}
	p, _ := cfg.Pipeline(pipeline)

	created := make([]string, 0)
	if ifEmpty, _ := cmd.Flags().GetBool("if-empty"); ifEmpty {
		existing, err := cliInstance.App.RecordService.CountRecords(ctx, pipeline)
		if err != nil {
			return formatter.Fail("SEED_ERROR", ExitCodeFor(err), err)
		}
		if existing > 0 {
			return reportSeed(cmd, formatter, pipeline, created)
		}
	}

	for _, sr := range seedRecords(p) {
		rec, err := cliInstance.App.RecordService.CreateRecord(ctx, recordservice.CreateRecordRequest{
			Pipeline:   pipeline,
			Title:      sr.Title,
			StageValue: sr.Value,
			Company:    sr.Company,
			Owner:      sr.Owner,
			Amount:     sr.Amount,
			Notes:      sr.Notes,
		})
		if err != nil {
			return formatter.Fail("SEED_ERROR", ExitCodeFor(err), fmt.Errorf("failed to create %q: %w", sr.Title, err))
		}
		created = append(created, string(rec.ID))
	}

	return reportSeed(cmd, formatter, pipeline, created)
}

func reportSeed(cmd *cobra.Command, formatter *OutputFormatter, pipeline types.PipelineID, created []string) error {
	if formatter.JSON {
		return formatter.JSONOut(map[string]any{
			"success":  true,
			"pipeline": pipeline,
			"ids":      created,
		})
	}
	if formatter.Quiet {
		for _, id := range created {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d records on %s\n", len(created), pipeline)
	return nil
}

// seedRecords returns the demo records of a pipeline. Built-in demo data is
// only used when every value still routes to a configured stage.
func seedRecords(p config.PipelineConfig) []seedRecord {
	stages := p.StageModels()
	if data, ok := seedData[p.ID]; ok && allRouted(stages, data) {
		return data
	}

	out := make([]seedRecord, 0, len(stages))
	for i, s := range stages {
		out = append(out, seedRecord{
			Title:  fmt.Sprintf("%s %d", s.Label, i+1),
			Value:  s.Primary(),
			Amount: float64(1000 * (i + 1)),
		})
	}
	return out
}

func allRouted(stages []models.Stage, data []seedRecord) bool {
	for _, sr := range data {
		found := false
		for _, s := range stages {
			if s.Has(sr.Value) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
