package catalog

import (
	"regexp"

	"redfp/internal/entity"
	"redfp/internal/importer"
)

// Center codes are uppercase letters, digits and hyphens (e.g. CIFP-1).
var centerCodeRegex = regexp.MustCompile(`^[A-Z0-9-]+$`)

const KeyCenters = "centers"

func init() {
	Register(Definition{
		Key:     KeyCenters,
		Label:   "Centros",
		Columns: []string{"code", "name", "network", "address", "municipality", "province", "island", "phone", "email"},
		Sample:  []string{"CIFP-1", "CIFP San Cristóbal", "RED-1", "Av. Principal 12", "La Laguna", "Santa Cruz de Tenerife", "Tenerife", "922123456", "secretaria@cifp1.es"},
	})
}

// CenterRules is the validation ruleset for center imports.
func CenterRules() []importer.FieldRule {
	return []importer.FieldRule{
		{Field: "code", Validators: []importer.Validator{
			importer.Required(),
			importer.Pattern(centerCodeRegex, "Código inválido (use mayúsculas, números y guiones)"),
		}},
		{Field: "name", Validators: []importer.Validator{importer.Required()}},
		{Field: "phone", Validators: []importer.Validator{importer.Phone()}},
		{Field: "email", Validators: []importer.Validator{importer.Email()}},
	}
}

// CenterPipeline builds the import pipeline for centers.
func CenterPipeline() *importer.Pipeline[entity.Center] {
	return importer.New(CenterRules(), func(row importer.Row) (entity.Center, error) {
		return entity.Center{
			Code:         row.Get("code"),
			Name:         row.Get("name"),
			Network:      row.Get("network"),
			Address:      row.Get("address"),
			Municipality: row.Get("municipality"),
			Province:     row.Get("province"),
			Island:       row.Get("island"),
			Phone:        row.Get("phone"),
			Email:        row.Get("email"),
		}, nil
	})
}
