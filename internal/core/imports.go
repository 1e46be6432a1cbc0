package core

import (
	"fmt"

	"redfp/internal/catalog"
	"redfp/internal/entity"
	"redfp/internal/importer"
	"redfp/internal/metrics"
)

// ImportReport is the outcome of one spreadsheet import: how many rows were
// committed, every row-level rejection, and the run stats.
type ImportReport struct {
	Key      string              `json:"key"`
	Imported int                 `json:"imported"`
	Errors   []importer.RowError `json:"errors"`
	Stats    importer.Stats      `json:"stats"`
}

// registerImports binds each catalog pipeline to its destination store.
// Every key here must have a matching catalog.Definition so templates and
// imports stay in sync.
func (s *Service) registerImports() {
	s.imports = map[string]func([]byte) ImportReport{
		catalog.KeyCenters: func(data []byte) ImportReport {
			res := catalog.CenterPipeline().Run(data, func(recs []entity.Center) {
				for _, r := range recs {
					s.Centers.Add(r)
				}
			})
			return report(catalog.KeyCenters, len(res.Records), res.Errors, res.Stats)
		},
		catalog.KeyDepartments: func(data []byte) ImportReport {
			res := catalog.DepartmentPipeline().Run(data, func(recs []entity.Department) {
				for _, r := range recs {
					s.Departments.Add(r)
				}
			})
			return report(catalog.KeyDepartments, len(res.Records), res.Errors, res.Stats)
		},
		catalog.KeyFamilies: func(data []byte) ImportReport {
			res := catalog.FamilyPipeline().Run(data, func(recs []entity.Family) {
				for _, r := range recs {
					s.Families.Add(r)
				}
			})
			return report(catalog.KeyFamilies, len(res.Records), res.Errors, res.Stats)
		},
		catalog.KeyObjectives: func(data []byte) ImportReport {
			res := catalog.ObjectivePipeline().Run(data, func(recs []entity.Objective) {
				for _, r := range recs {
					s.Objectives.Add(r)
				}
			})
			return report(catalog.KeyObjectives, len(res.Records), res.Errors, res.Stats)
		},
	}
}

func report(key string, imported int, errs []importer.RowError, stats importer.Stats) ImportReport {
	metrics.ImportsTotal.WithLabelValues(key).Inc()
	metrics.ImportRowsTotal.WithLabelValues(key, "imported").Add(float64(stats.Success))
	metrics.ImportRowsTotal.WithLabelValues(key, "rejected").Add(float64(stats.Errors))
	return ImportReport{Key: key, Imported: imported, Errors: errs, Stats: stats}
}

// Import runs the pipeline registered under key against the uploaded file
// bytes. Valid rows are committed even when other rows fail.
func (s *Service) Import(key string, data []byte) (ImportReport, error) {
	run, ok := s.imports[key]
	if !ok {
		return ImportReport{}, fmt.Errorf("unknown import type %s: %w", key, catalog.ErrUnknownKey)
	}
	return run(data), nil
}

// Template returns the downloadable CSV template for the import type, along
// with a filename suited to a Content-Disposition header.
func (s *Service) Template(key string) (data []byte, filename string, err error) {
	def, ok := catalog.Get(key)
	if !ok {
		return nil, "", fmt.Errorf("unknown import type %s: %w", key, catalog.ErrUnknownKey)
	}
	data, err = importer.Template(def.Columns, def.Sample)
	if err != nil {
		return nil, "", err
	}
	return data, "plantilla_" + key + ".csv", nil
}

// ImportTypes lists the registered import definitions for the UI.
func (s *Service) ImportTypes() []catalog.Definition {
	return catalog.All()
}
