package core

import (
	"errors"
	"fmt"

	"redfp/internal/entity"
	"redfp/internal/store"
)

// ErrCenterClaimed is returned when a network assignment names a center that
// another network already claims, either as headquarters or as a member.
var ErrCenterClaimed = errors.New("center already claimed by another network")

// claimedBy maps center id to the id of the network claiming it, skipping
// the network given in except.
func (s *Service) claimedBy(except string) map[string]string {
	claims := make(map[string]string)
	for _, n := range s.Networks.All() {
		if n.ID == except {
			continue
		}
		if n.HeadquarterID != "" {
			claims[n.HeadquarterID] = n.ID
		}
		for _, cid := range n.CenterIDs {
			claims[cid] = n.ID
		}
	}
	return claims
}

// AssignableCenters returns the centers a network may claim: every center
// not already held by a different network. The network's own centers are
// included so an edit form can render the current selection.
func (s *Service) AssignableCenters(networkID string) ([]entity.Center, error) {
	if _, ok := s.Networks.Get(networkID); !ok {
		return nil, fmt.Errorf("network %s: %w", networkID, store.ErrNotFound)
	}
	claims := s.claimedBy(networkID)

	var out []entity.Center
	for _, c := range s.Centers.All() {
		if _, taken := claims[c.ID]; !taken {
			out = append(out, c)
		}
	}
	return out, nil
}

// SetNetworkAssignments replaces a network's headquarters and member list.
// Stores know nothing about each other, so exclusivity of a center across
// networks is enforced here, at the operation boundary.
func (s *Service) SetNetworkAssignments(networkID, headquarterID string, centerIDs []string) error {
	for _, cid := range centerIDs {
		if cid == headquarterID {
			return fmt.Errorf("center %s cannot be both headquarters and member", cid)
		}
	}

	claims := s.claimedBy(networkID)
	check := func(cid string) error {
		if cid == "" {
			return nil
		}
		if _, ok := s.Centers.Get(cid); !ok {
			return fmt.Errorf("center %s: %w", cid, store.ErrNotFound)
		}
		if owner, taken := claims[cid]; taken {
			return fmt.Errorf("center %s held by network %s: %w", cid, owner, ErrCenterClaimed)
		}
		return nil
	}

	if err := check(headquarterID); err != nil {
		return err
	}
	for _, cid := range centerIDs {
		if err := check(cid); err != nil {
			return err
		}
	}

	return s.Networks.Update(networkID, func(n *entity.Network) {
		n.HeadquarterID = headquarterID
		n.CenterIDs = append([]string(nil), centerIDs...)
	})
}
