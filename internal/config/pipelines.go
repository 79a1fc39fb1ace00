package config

import (
	"fmt"

	"github.com/thenoetrevino/embudo/internal/board"
	"github.com/thenoetrevino/embudo/internal/models"
	"github.com/thenoetrevino/embudo/internal/types"
)

// StageConfig is one column of a pipeline. The first value is written when
// a card is dropped into the stage; the rest are accepted aliases.
type StageConfig struct {
	ID     string   `yaml:"id"`
	Label  string   `yaml:"label"`
	Values []string `yaml:"values"`
	Color  string   `yaml:"color,omitempty"`
}

// PipelineConfig is one board
type PipelineConfig struct {
	ID     string        `yaml:"id"`
	Label  string        `yaml:"label"`
	Stages []StageConfig `yaml:"stages"`
}

// StageModels converts the configured stages to board stages
func (p PipelineConfig) StageModels() []models.Stage {
	stages := make([]models.Stage, 0, len(p.Stages))
	for _, s := range p.Stages {
		stages = append(stages, models.Stage{
			ID:           types.StageID(s.ID),
			Label:        s.Label,
			MemberValues: append([]string(nil), s.Values...),
			Color:        s.Color,
		})
	}
	return stages
}

// Registry builds the validated stage registry of the pipeline
func (p PipelineConfig) Registry() (*board.Registry, error) {
	reg, err := board.NewRegistry(p.StageModels())
	if err != nil {
		return nil, fmt.Errorf("pipeline %q: %w", p.ID, err)
	}
	return reg, nil
}

// Built-in pipeline ids
const (
	PipelineOpportunities = "oportunidades"
	PipelineRisks         = "riesgos"
	PipelineAgro          = "agro"
)

// DefaultPipelines returns the built-in boards: sales opportunities, risk
// analyses and agro opportunities
func DefaultPipelines() []PipelineConfig {
	return []PipelineConfig{
		{
			ID:    PipelineOpportunities,
			Label: "Oportunidades",
			Stages: []StageConfig{
				{ID: "prospeccion", Label: "Prospección", Values: []string{"prospeccion"}, Color: "#5F87D7"},
				{ID: "calificacion", Label: "Calificación", Values: []string{"calificacion"}, Color: "#00AFFF"},
				{ID: "propuesta", Label: "Propuesta", Values: []string{"propuesta"}, Color: "#D7AF5F"},
				{ID: "negociacion", Label: "Negociación", Values: []string{"negociacion"}, Color: "#D75FD7"},
				{ID: "cerrada", Label: "Cerrada", Values: []string{"cerrada_ganada", "cerrada_perdida"}, Color: "#5FD75F"},
			},
		},
		{
			ID:    PipelineRisks,
			Label: "Análisis de riesgos",
			Stages: []StageConfig{
				{ID: "identificado", Label: "Identificado", Values: []string{"identificado"}, Color: "#FF5F5F"},
				{ID: "en_analisis", Label: "En análisis", Values: []string{"en_analisis"}, Color: "#FFD700"},
				{ID: "mitigacion", Label: "Mitigación", Values: []string{"mitigacion"}, Color: "#00AFFF"},
				{ID: "cerrado", Label: "Cerrado", Values: []string{"aceptado", "mitigado", "descartado"}, Color: "#5FD75F"},
			},
		},
		{
			ID:    PipelineAgro,
			Label: "Oportunidades agro",
			Stages: []StageConfig{
				{ID: "contacto", Label: "Contacto", Values: []string{"contacto"}, Color: "#5F87D7"},
				{ID: "visita", Label: "Visita de campo", Values: []string{"visita"}, Color: "#87AF5F"},
				{ID: "cotizacion", Label: "Cotización", Values: []string{"cotizacion"}, Color: "#D7AF5F"},
				{ID: "negociacion", Label: "Negociación", Values: []string{"negociacion"}, Color: "#D75FD7"},
				{ID: "cerrada", Label: "Cerrada", Values: []string{"cerrada_ganada", "cerrada_perdida"}, Color: "#5FD75F"},
			},
		},
	}
}

// mergePipelines overlays user pipelines on base: same id replaces, new
// ids are appended in order
func mergePipelines(base, overlay []PipelineConfig) []PipelineConfig {
	out := append([]PipelineConfig(nil), base...)
	for _, p := range overlay {
		replaced := false
		for i := range out {
			if out[i].ID == p.ID {
				out[i] = p
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, p)
		}
	}
	return out
}
