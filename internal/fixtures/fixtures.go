// Package fixtures holds the embedded seed data used to initialize an empty
// deployment: the known networks and centers plus starter help sections.
// The YAML schema is local to this package; Load converts it to entity
// values with stable, human-readable ids so reseeding is deterministic.
package fixtures

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"redfp/internal/entity"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the fixture payload in entity form.
type Seed struct {
	Networks    []entity.Network
	Centers     []entity.Center
	Departments []entity.Department
	Families    []entity.Family
	Objectives  []entity.Objective
	Help        []entity.HelpSection
}

type seedFile struct {
	Networks []struct {
		ID            string   `yaml:"id"`
		Code          string   `yaml:"code"`
		Name          string   `yaml:"name"`
		HeadquarterID string   `yaml:"headquarter"`
		CenterIDs     []string `yaml:"centers"`
	} `yaml:"networks"`
	Centers []struct {
		ID           string `yaml:"id"`
		Code         string `yaml:"code"`
		Name         string `yaml:"name"`
		Network      string `yaml:"network"`
		Address      string `yaml:"address"`
		Municipality string `yaml:"municipality"`
		Province     string `yaml:"province"`
		Island       string `yaml:"island"`
		Phone        string `yaml:"phone"`
		Email        string `yaml:"email"`
	} `yaml:"centers"`
	Departments []struct {
		ID     string `yaml:"id"`
		Code   string `yaml:"code"`
		Name   string `yaml:"name"`
		Center string `yaml:"center"`
		Head   string `yaml:"head"`
		Email  string `yaml:"email"`
	} `yaml:"departments"`
	Families []struct {
		ID      string `yaml:"id"`
		Code    string `yaml:"code"`
		Name    string `yaml:"name"`
		Studies []struct {
			Code   string `yaml:"code"`
			Name   string `yaml:"name"`
			Level  string `yaml:"level"`
			Groups []struct {
				Code  string `yaml:"code"`
				Name  string `yaml:"name"`
				Shift string `yaml:"shift"`
				Year  int    `yaml:"year"`
			} `yaml:"groups"`
		} `yaml:"studies"`
	} `yaml:"families"`
	Objectives []struct {
		ID          string `yaml:"id"`
		Code        string `yaml:"code"`
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		Scope       string `yaml:"scope"`
		Active      bool   `yaml:"active"`
	} `yaml:"objectives"`
	Help []struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title"`
		Body  string `yaml:"body"`
		Order int    `yaml:"order"`
	} `yaml:"help"`
}

// Load parses the embedded seed file.
func Load() (*Seed, error) {
	var f seedFile
	if err := yaml.Unmarshal(seedYAML, &f); err != nil {
		return nil, fmt.Errorf("parse seed fixtures: %w", err)
	}

	seed := &Seed{}
	for _, n := range f.Networks {
		seed.Networks = append(seed.Networks, entity.Network{
			ID: n.ID, Code: n.Code, Name: n.Name,
			HeadquarterID: n.HeadquarterID, CenterIDs: n.CenterIDs,
		})
	}
	for _, c := range f.Centers {
		seed.Centers = append(seed.Centers, entity.Center{
			ID: c.ID, Code: c.Code, Name: c.Name, Network: c.Network,
			Address: c.Address, Municipality: c.Municipality,
			Province: c.Province, Island: c.Island,
			Phone: c.Phone, Email: c.Email,
		})
	}
	for _, d := range f.Departments {
		seed.Departments = append(seed.Departments, entity.Department{
			ID: d.ID, Code: d.Code, Name: d.Name,
			Center: d.Center, Head: d.Head, Email: d.Email,
		})
	}
	for _, fam := range f.Families {
		out := entity.Family{ID: fam.ID, Code: fam.Code, Name: fam.Name}
		for _, s := range fam.Studies {
			study := entity.Study{
				Code: s.Code, Name: s.Name, Level: entity.StudyLevel(s.Level),
			}
			for _, g := range s.Groups {
				study.Groups = append(study.Groups, entity.Group{
					Code: g.Code, Name: g.Name,
					Shift: entity.GroupShift(g.Shift), Year: g.Year,
				})
			}
			out.Studies = append(out.Studies, study)
		}
		seed.Families = append(seed.Families, out)
	}
	for _, o := range f.Objectives {
		seed.Objectives = append(seed.Objectives, entity.Objective{
			ID: o.ID, Code: o.Code, Title: o.Title,
			Description: o.Description, Scope: o.Scope, Active: o.Active,
		})
	}
	for _, h := range f.Help {
		seed.Help = append(seed.Help, entity.HelpSection{
			ID: h.ID, Title: h.Title, Body: h.Body, Order: h.Order,
		})
	}
	return seed, nil
}
