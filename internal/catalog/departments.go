package catalog

import (
	"regexp"

	"redfp/internal/entity"
	"redfp/internal/importer"
)

// Department codes follow DEP- plus two to five uppercase letters.
var departmentCodeRegex = regexp.MustCompile(`^DEP-[A-Z]{2,5}$`)

const KeyDepartments = "departments"

func init() {
	Register(Definition{
		Key:     KeyDepartments,
		Label:   "Departamentos",
		Columns: []string{"code", "name", "center", "head", "email"},
		Sample:  []string{"DEP-INF", "Informática y Comunicaciones", "CIFP-1", "Ana Pérez", "dep.informatica@cifp1.es"},
	})
}

// DepartmentRules is the validation ruleset for department imports.
func DepartmentRules() []importer.FieldRule {
	return []importer.FieldRule{
		{Field: "code", Validators: []importer.Validator{
			importer.Required(),
			importer.Pattern(departmentCodeRegex, "Código inválido (formato DEP-XX)"),
		}},
		{Field: "name", Validators: []importer.Validator{importer.Required()}},
		{Field: "email", Validators: []importer.Validator{importer.Email()}},
	}
}

// DepartmentPipeline builds the import pipeline for departments.
func DepartmentPipeline() *importer.Pipeline[entity.Department] {
	return importer.New(DepartmentRules(), func(row importer.Row) (entity.Department, error) {
		return entity.Department{
			Code:   row.Get("code"),
			Name:   row.Get("name"),
			Center: row.Get("center"),
			Head:   row.Get("head"),
			Email:  row.Get("email"),
		}, nil
	})
}
