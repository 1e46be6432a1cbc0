package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"redfp/internal/catalog"
	"redfp/internal/entity"
	"redfp/internal/kv"
	"redfp/internal/store"
)

// ============================================================================
// Seeding and persistence
// ============================================================================

func TestSeed_LoadsFixtures(t *testing.T) {
	s := NewService(nil)

	if err := s.Seed(); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if s.Networks.Len() == 0 || s.Centers.Len() == 0 {
		t.Fatal("seed should populate networks and centers")
	}
	if s.Empty() {
		t.Error("Empty() = true after seeding")
	}

	// help sections come back in Order order
	help := s.HelpSections()
	for i := 1; i < len(help); i++ {
		if help[i-1].Order > help[i].Order {
			t.Errorf("help sections out of order: %d before %d", help[i-1].Order, help[i].Order)
		}
	}
}

func TestMirror_RoundTrip(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	s := NewService(backend)
	added := s.Centers.Add(entity.Center{Code: "CIFP-9", Name: "Centro Nueve"})
	s.Centers.Update(added.ID, func(c *entity.Center) { c.Name = "Renombrado" })

	// a second service over the same backend sees the mutations
	restored := NewService(backend)
	n, err := restored.LoadPersisted(ctx)
	if err != nil {
		t.Fatalf("LoadPersisted() error = %v", err)
	}
	if n != 1 {
		t.Fatalf("LoadPersisted() = %d records, want 1", n)
	}
	got, ok := restored.Centers.Get(added.ID)
	if !ok {
		t.Fatal("restored service missing the center")
	}
	if got.Name != "Renombrado" || got.Code != "CIFP-9" {
		t.Errorf("restored center = %+v", got)
	}
}

func TestMirror_DeletePropagates(t *testing.T) {
	backend := kv.NewMemory()
	ctx := context.Background()

	s := NewService(backend)
	added := s.Centers.Add(entity.Center{Code: "CIFP-9"})
	s.Centers.Delete(added.ID)

	restored := NewService(backend)
	n, err := restored.LoadPersisted(ctx)
	if err != nil {
		t.Fatalf("LoadPersisted() error = %v", err)
	}
	if n != 0 {
		t.Errorf("LoadPersisted() = %d records, want 0 after delete", n)
	}
}

// ============================================================================
// Imports
// ============================================================================

func TestImport_CommitsValidRows(t *testing.T) {
	s := NewService(nil)

	csv := "code,name,email\nCIFP-1,Centro Uno,ok@fp.es\nCIFP-2,Centro Dos,bad-email\n"
	report, err := s.Import(catalog.KeyCenters, []byte(csv))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if report.Imported != 1 {
		t.Errorf("Imported = %d, want 1", report.Imported)
	}
	if report.Stats.Total != 2 || report.Stats.Success != 1 || report.Stats.Errors != 1 {
		t.Errorf("Stats = %+v, want {Total:2 Success:1 Errors:1}", report.Stats)
	}
	if s.Centers.Len() != 1 {
		t.Errorf("Centers.Len = %d, want 1 committed record", s.Centers.Len())
	}
	// committed record got a store-assigned id
	if s.Centers.All()[0].ID == "" {
		t.Error("imported center has no id")
	}
}

func TestImport_UnknownKey(t *testing.T) {
	s := NewService(nil)

	_, err := s.Import("nonsense", []byte("a,b\n1,2\n"))
	if !errors.Is(err, catalog.ErrUnknownKey) {
		t.Errorf("Import(nonsense) error = %v, want ErrUnknownKey", err)
	}
}

func TestTemplate_KnownKey(t *testing.T) {
	s := NewService(nil)

	data, filename, err := s.Template(catalog.KeyObjectives)
	if err != nil {
		t.Fatalf("Template() error = %v", err)
	}
	if filename != "plantilla_objectives.csv" {
		t.Errorf("filename = %q", filename)
	}
	if len(data) == 0 {
		t.Error("template is empty")
	}
}

// ============================================================================
// Objectives
// ============================================================================

func TestToggleObjective_DoubleToggleIsIdentity(t *testing.T) {
	s := NewService(nil)
	obj := s.Objectives.Add(entity.Objective{Code: "OBJ-1", Title: "T", Active: true})

	if err := s.ToggleObjectiveActive(obj.ID); err != nil {
		t.Fatalf("toggle error = %v", err)
	}
	got, _ := s.Objectives.Get(obj.ID)
	if got.Active {
		t.Error("first toggle should deactivate")
	}
	if got.Title != "T" {
		t.Error("toggle must not clobber other fields")
	}

	if err := s.ToggleObjectiveActive(obj.ID); err != nil {
		t.Fatalf("toggle error = %v", err)
	}
	got, _ = s.Objectives.Get(obj.ID)
	if !got.Active {
		t.Error("second toggle should restore the original state")
	}
}

func TestToggleObjective_NotFound(t *testing.T) {
	s := NewService(nil)
	if err := s.ToggleObjectiveActive("missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// ============================================================================
// Network assignments
// ============================================================================

func assignmentFixture(t *testing.T) (*Service, entity.Network, entity.Network, entity.Center, entity.Center) {
	t.Helper()
	s := NewService(nil)
	n1 := s.Networks.Add(entity.Network{Code: "RED-1"})
	n2 := s.Networks.Add(entity.Network{Code: "RED-2"})
	c1 := s.Centers.Add(entity.Center{Code: "CIFP-1"})
	c2 := s.Centers.Add(entity.Center{Code: "CIFP-2"})
	return s, n1, n2, c1, c2
}

func TestSetNetworkAssignments_ClaimedCenterRejected(t *testing.T) {
	s, n1, n2, c1, c2 := assignmentFixture(t)

	if err := s.SetNetworkAssignments(n1.ID, c1.ID, []string{c2.ID}); err != nil {
		t.Fatalf("first assignment error = %v", err)
	}

	err := s.SetNetworkAssignments(n2.ID, "", []string{c2.ID})
	if !errors.Is(err, ErrCenterClaimed) {
		t.Errorf("error = %v, want ErrCenterClaimed", err)
	}

	// headquarters claims count too
	err = s.SetNetworkAssignments(n2.ID, c1.ID, nil)
	if !errors.Is(err, ErrCenterClaimed) {
		t.Errorf("hq claim error = %v, want ErrCenterClaimed", err)
	}
}

func TestSetNetworkAssignments_OwnClaimsMayBeKept(t *testing.T) {
	s, n1, _, c1, c2 := assignmentFixture(t)

	if err := s.SetNetworkAssignments(n1.ID, c1.ID, []string{c2.ID}); err != nil {
		t.Fatalf("assignment error = %v", err)
	}
	// re-submitting the same assignment must not conflict with itself
	if err := s.SetNetworkAssignments(n1.ID, c2.ID, []string{c1.ID}); err != nil {
		t.Fatalf("swap within own network error = %v", err)
	}
}

func TestSetNetworkAssignments_HeadquarterExclusive(t *testing.T) {
	s, n1, _, c1, _ := assignmentFixture(t)

	err := s.SetNetworkAssignments(n1.ID, c1.ID, []string{c1.ID})
	if err == nil {
		t.Error("a center cannot be headquarters and member at once")
	}
}

func TestSetNetworkAssignments_UnknownCenter(t *testing.T) {
	s, n1, _, _, _ := assignmentFixture(t)

	err := s.SetNetworkAssignments(n1.ID, "", []string{"ghost"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestAssignableCenters_ExcludesClaimed(t *testing.T) {
	s, n1, n2, c1, c2 := assignmentFixture(t)

	if err := s.SetNetworkAssignments(n1.ID, "", []string{c1.ID}); err != nil {
		t.Fatalf("assignment error = %v", err)
	}

	free, err := s.AssignableCenters(n2.ID)
	if err != nil {
		t.Fatalf("AssignableCenters() error = %v", err)
	}
	if len(free) != 1 || free[0].ID != c2.ID {
		t.Errorf("assignable = %+v, want only %s", free, c2.ID)
	}

	// the claiming network still sees its own center
	own, err := s.AssignableCenters(n1.ID)
	if err != nil {
		t.Fatalf("AssignableCenters() error = %v", err)
	}
	if len(own) != 2 {
		t.Errorf("own assignable = %d centers, want 2", len(own))
	}
}

// ============================================================================
// Meetings, codes, scopes
// ============================================================================

func TestMeetingsBetween(t *testing.T) {
	s := NewService(nil)
	day := func(d int) time.Time { return time.Date(2026, 9, d, 10, 0, 0, 0, time.UTC) }

	s.Meetings.Add(entity.Meeting{Title: "early", Start: day(1), End: day(1).Add(time.Hour)})
	s.Meetings.Add(entity.Meeting{Title: "inside", Start: day(10), End: day(10).Add(time.Hour)})
	s.Meetings.Add(entity.Meeting{Title: "late", Start: day(20), End: day(20).Add(time.Hour)})

	got := s.MeetingsBetween(day(5), day(15))
	if len(got) != 1 || got[0].Title != "inside" {
		t.Fatalf("MeetingsBetween = %+v, want only inside", got)
	}

	all := s.MeetingsBetween(time.Time{}, time.Time{})
	if len(all) != 3 {
		t.Errorf("open range = %d meetings, want 3", len(all))
	}
	if all[0].Title != "early" || all[2].Title != "late" {
		t.Errorf("meetings not sorted by start: %+v", all)
	}
}

func TestRegistrationCodes(t *testing.T) {
	s := NewService(nil)

	code, err := s.NewRegistrationCode(entity.RoleNetworkAdmin, "net-1", "")
	if err != nil {
		t.Fatalf("NewRegistrationCode() error = %v", err)
	}
	if code.Code == "" || code.Used {
		t.Errorf("fresh code = %+v", code)
	}

	redeemed, err := s.RedeemCode(code.Code)
	if err != nil {
		t.Fatalf("RedeemCode() error = %v", err)
	}
	if !redeemed.Used || redeemed.Role != entity.RoleNetworkAdmin {
		t.Errorf("redeemed = %+v", redeemed)
	}

	if _, err := s.RedeemCode(code.Code); err == nil {
		t.Error("second redeem must fail")
	}
	if _, err := s.RedeemCode("UNKNOWN"); err == nil {
		t.Error("unknown code must fail")
	}
}

func TestNewRegistrationCode_InvalidRole(t *testing.T) {
	s := NewService(nil)
	if _, err := s.NewRegistrationCode("superuser", "", ""); err == nil {
		t.Error("invalid role must be rejected")
	}
}

func TestVisibleCenters(t *testing.T) {
	s := NewService(nil)
	n1 := s.Networks.Add(entity.Network{Code: "RED-1"})
	c1 := s.Centers.Add(entity.Center{Code: "CIFP-1"})
	c2 := s.Centers.Add(entity.Center{Code: "CIFP-2"})
	c3 := s.Centers.Add(entity.Center{Code: "CIFP-3"})
	if err := s.SetNetworkAssignments(n1.ID, c1.ID, []string{c2.ID}); err != nil {
		t.Fatalf("assignment error = %v", err)
	}

	tests := []struct {
		name  string
		scope Scope
		want  int
	}{
		{"admin sees all", Scope{Role: entity.RoleAdmin}, 3},
		{"network admin sees network centers", Scope{Role: entity.RoleNetworkAdmin, NetworkID: n1.ID}, 2},
		{"center admin sees own center", Scope{Role: entity.RoleCenterAdmin, CenterID: c3.ID}, 1},
		{"teacher without center sees nothing", Scope{Role: entity.RoleTeacher}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.VisibleCenters(tt.scope)
			if len(got) != tt.want {
				t.Errorf("VisibleCenters = %d centers, want %d", len(got), tt.want)
			}
		})
	}
}
