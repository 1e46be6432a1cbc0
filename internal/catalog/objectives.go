package catalog

import (
	"strings"

	"redfp/internal/entity"
	"redfp/internal/importer"
)

const KeyObjectives = "objectives"

func init() {
	Register(Definition{
		Key:     KeyObjectives,
		Label:   "Objetivos",
		Columns: []string{"code", "title", "description", "scope", "active"},
		Sample:  []string{"OBJ-01", "Aumentar la inserción laboral", "Seguimiento anual de inserción por familia", "network", "true"},
	})
}

// ObjectiveRules is the validation ruleset for objective imports.
func ObjectiveRules() []importer.FieldRule {
	return []importer.FieldRule{
		{Field: "code", Validators: []importer.Validator{importer.Required()}},
		{Field: "title", Validators: []importer.Validator{importer.Required()}},
		{Field: "active", Validators: []importer.Validator{
			importer.OneOf("Valor inválido (true/false)", "true", "false", "1", "0", "si", "sí", "no"),
		}},
	}
}

// ObjectivePipeline builds the import pipeline for objectives. Imported
// objectives default to active unless the sheet says otherwise.
func ObjectivePipeline() *importer.Pipeline[entity.Objective] {
	return importer.New(ObjectiveRules(), func(row importer.Row) (entity.Objective, error) {
		return entity.Objective{
			Code:        row.Get("code"),
			Title:       row.Get("title"),
			Description: row.Get("description"),
			Scope:       row.Get("scope"),
			Active:      parseActive(row.Get("active")),
		}, nil
	})
}

func parseActive(value string) bool {
	switch strings.ToLower(value) {
	case "false", "0", "no":
		return false
	}
	return true
}
