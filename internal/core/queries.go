package core

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"redfp/internal/entity"
)

// ToggleObjectiveActive flips an objective's active flag. Two toggles leave
// the record exactly as it started.
func (s *Service) ToggleObjectiveActive(id string) error {
	return s.Objectives.Update(id, func(o *entity.Objective) {
		o.Active = !o.Active
	})
}

// MeetingsBetween returns meetings overlapping the [from, to) window,
// ordered by start time. A zero to means no upper bound.
func (s *Service) MeetingsBetween(from, to time.Time) []entity.Meeting {
	var out []entity.Meeting
	for _, m := range s.Meetings.All() {
		if !to.IsZero() && !m.Start.Before(to) {
			continue
		}
		if m.End.Before(from) || m.End.Equal(from) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

// HelpSections returns the help content sorted by its Order field, ties
// broken by title so the listing is stable.
func (s *Service) HelpSections() []entity.HelpSection {
	out := s.Help.All()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Title < out[j].Title
	})
	return out
}

// NewRegistrationCode mints a single-use invitation bound to a role and,
// depending on the role, a network or center.
func (s *Service) NewRegistrationCode(role entity.Role, networkID, centerID string) (entity.RegistrationCode, error) {
	if !role.Valid() {
		return entity.RegistrationCode{}, fmt.Errorf("invalid role %q", role)
	}
	code := entity.RegistrationCode{
		Code:      strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12]),
		Role:      role,
		NetworkID: networkID,
		CenterID:  centerID,
		CreatedAt: time.Now().UTC(),
	}
	return s.Codes.Add(code), nil
}

// RedeemCode marks a registration code used and returns it. Redeeming an
// unknown or already-used code fails.
func (s *Service) RedeemCode(code string) (entity.RegistrationCode, error) {
	for _, rc := range s.Codes.All() {
		if rc.Code != code {
			continue
		}
		if rc.Used {
			return entity.RegistrationCode{}, fmt.Errorf("registration code %s already used", code)
		}
		if err := s.Codes.Update(rc.ID, func(c *entity.RegistrationCode) { c.Used = true }); err != nil {
			return entity.RegistrationCode{}, err
		}
		rc.Used = true
		return rc, nil
	}
	return entity.RegistrationCode{}, fmt.Errorf("registration code %s not found", code)
}

// Scope narrows what a caller may see, derived from their role and
// assignment at login.
type Scope struct {
	Role      entity.Role
	NetworkID string
	CenterID  string
}

// VisibleCenters filters the center list down to the caller's scope:
// administrators see everything, network admins their network's centers,
// and center-bound roles only their own center.
func (s *Service) VisibleCenters(sc Scope) []entity.Center {
	switch sc.Role {
	case entity.RoleAdmin:
		return s.Centers.All()
	case entity.RoleNetworkAdmin:
		net, ok := s.Networks.Get(sc.NetworkID)
		if !ok {
			return nil
		}
		member := make(map[string]bool, len(net.CenterIDs)+1)
		if net.HeadquarterID != "" {
			member[net.HeadquarterID] = true
		}
		for _, cid := range net.CenterIDs {
			member[cid] = true
		}
		var out []entity.Center
		for _, c := range s.Centers.All() {
			if member[c.ID] {
				out = append(out, c)
			}
		}
		return out
	default:
		if c, ok := s.Centers.Get(sc.CenterID); ok {
			return []entity.Center{c}
		}
		return nil
	}
}
