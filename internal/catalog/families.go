package catalog

import (
	"encoding/json"
	"fmt"
	"strings"

	"redfp/internal/entity"
	"redfp/internal/importer"
)

const KeyFamilies = "families"

func init() {
	Register(Definition{
		Key:     KeyFamilies,
		Label:   "Familias profesionales",
		Columns: []string{"code", "name", "studies"},
		Sample: []string{
			"IFC",
			"Informática y Comunicaciones",
			`[{"code":"IFC201","name":"Sistemas Microinformáticos y Redes","level":"medium","groups":[{"code":"SMR1A","name":"SMR 1ºA","shift":"morning","year":1}]}]`,
		},
	})
}

// FamilyRules is the validation ruleset for professional-family imports.
// The studies column carries the nested studies-and-groups structure as JSON
// text; a malformed value produces a single error for the whole row on the
// "studies" field and no partial study or group records.
func FamilyRules() []importer.FieldRule {
	return []importer.FieldRule{
		{Field: "code", Validators: []importer.Validator{importer.Required()}},
		{Field: "name", Validators: []importer.Validator{importer.Required()}},
		{Field: "studies", Validators: []importer.Validator{validStudies}},
	}
}

// FamilyPipeline builds the import pipeline for professional families.
func FamilyPipeline() *importer.Pipeline[entity.Family] {
	return importer.New(FamilyRules(), func(row importer.Row) (entity.Family, error) {
		fam := entity.Family{
			Code: row.Get("code"),
			Name: row.Get("name"),
		}
		raw := row.Get("studies")
		if raw == "" {
			return fam, nil
		}
		if err := json.Unmarshal([]byte(raw), &fam.Studies); err != nil {
			return entity.Family{}, fmt.Errorf("estudios no válidos: %w", err)
		}
		return fam, nil
	})
}

// validStudies checks the studies JSON shape and the enum fields of every
// nested study and group.
func validStudies(value string) string {
	if value == "" {
		return ""
	}

	var studies []entity.Study
	if err := json.Unmarshal([]byte(value), &studies); err != nil {
		return "JSON de estudios inválido"
	}

	for _, s := range studies {
		if s.Code == "" || s.Name == "" {
			return "Cada estudio requiere code y name"
		}
		if !levelAllowed(string(s.Level)) {
			return "Nivel inválido (" + strings.Join(entity.StudyLevels, ", ") + ")"
		}
		for _, g := range s.Groups {
			if g.Code == "" {
				return "Cada grupo requiere code"
			}
			if g.Shift != "" && !shiftAllowed(string(g.Shift)) {
				return "Turno inválido (" + strings.Join(entity.GroupShifts, ", ") + ")"
			}
		}
	}
	return ""
}

func levelAllowed(level string) bool {
	for _, l := range entity.StudyLevels {
		if strings.EqualFold(l, level) {
			return true
		}
	}
	return false
}

func shiftAllowed(shift string) bool {
	for _, s := range entity.GroupShifts {
		if strings.EqualFold(s, shift) {
			return true
		}
	}
	return false
}
