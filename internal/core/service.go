// Package core provides the business logic of the admin service: one entity
// store per master-record type, seeding from fixtures, import orchestration,
// and the cross-entity checks the stores themselves do not enforce. The
// package has no HTTP dependencies and can be driven by any frontend.
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"

	"redfp/internal/entity"
	"redfp/internal/fixtures"
	"redfp/internal/kv"
	"redfp/internal/metrics"
	"redfp/internal/store"
)

// Bucket names used in the key-value backend, one per entity.
const (
	bucketNetworks    = "networks"
	bucketCenters     = "centers"
	bucketDepartments = "departments"
	bucketFamilies    = "families"
	bucketObjectives  = "objectives"
	bucketMeetings    = "meetings"
	bucketObservatory = "observatory"
	bucketCodes       = "codes"
	bucketUsers       = "users"
	bucketHelp        = "help"
)

// Service owns the entity stores for one application instance. Construct it
// once and share it by reference; a fresh Service per test gives full
// isolation.
type Service struct {
	Networks    *store.Store[entity.Network]
	Centers     *store.Store[entity.Center]
	Departments *store.Store[entity.Department]
	Families    *store.Store[entity.Family]
	Objectives  *store.Store[entity.Objective]
	Meetings    *store.Store[entity.Meeting]
	Observatory *store.Store[entity.ObservatoryItem]
	Codes       *store.Store[entity.RegistrationCode]
	Users       *store.Store[entity.User]
	Help        *store.Store[entity.HelpSection]

	backend kv.Store
	imports map[string]func([]byte) ImportReport
}

// NewService builds the stores and wires the persistence mirror. backend may
// be nil, in which case the service runs purely in memory.
func NewService(backend kv.Store) *Service {
	s := &Service{
		Networks:    store.New(entity.Network.WithID),
		Centers:     store.New(entity.Center.WithID),
		Departments: store.New(entity.Department.WithID),
		Families:    store.New(entity.Family.WithID),
		Objectives:  store.New(entity.Objective.WithID),
		Meetings:    store.New(entity.Meeting.WithID),
		Observatory: store.New(entity.ObservatoryItem.WithID),
		Codes:       store.New(entity.RegistrationCode.WithID),
		Users:       store.New(entity.User.WithID),
		Help:        store.New(entity.HelpSection.WithID),
		backend:     backend,
	}

	mirror(s, bucketNetworks, s.Networks)
	mirror(s, bucketCenters, s.Centers)
	mirror(s, bucketDepartments, s.Departments)
	mirror(s, bucketFamilies, s.Families)
	mirror(s, bucketObjectives, s.Objectives)
	mirror(s, bucketMeetings, s.Meetings)
	mirror(s, bucketObservatory, s.Observatory)
	mirror(s, bucketCodes, s.Codes)
	mirror(s, bucketUsers, s.Users)
	mirror(s, bucketHelp, s.Help)

	s.registerImports()
	return s
}

// Empty reports whether every store is empty, which on boot means a fresh
// deployment that may want Seed.
func (s *Service) Empty() bool {
	return s.Networks.Len() == 0 && s.Centers.Len() == 0 &&
		s.Departments.Len() == 0 && s.Families.Len() == 0 &&
		s.Objectives.Len() == 0 && s.Meetings.Len() == 0 &&
		s.Observatory.Len() == 0 && s.Codes.Len() == 0 &&
		s.Users.Len() == 0 && s.Help.Len() == 0
}

// Seed replaces the master-data collections with the embedded fixtures.
// Intended for the first boot of an empty deployment.
func (s *Service) Seed() error {
	seed, err := fixtures.Load()
	if err != nil {
		return err
	}
	s.Networks.SetAll(seed.Networks)
	s.Centers.SetAll(seed.Centers)
	s.Departments.SetAll(seed.Departments)
	s.Families.SetAll(seed.Families)
	s.Objectives.SetAll(seed.Objectives)
	s.Help.SetAll(seed.Help)
	return nil
}

// LoadPersisted fills the stores from the key-value backend and returns the
// total number of records loaded.
//
// The backend scan has no memory of insertion order, so each collection is
// restored sorted by id. ULIDs embed their creation time, which makes that
// the creation order for every store-assigned id.
func (s *Service) LoadPersisted(ctx context.Context) (int, error) {
	if s.backend == nil {
		return 0, nil
	}

	n := 0
	loaders := []func() (int, error){
		func() (int, error) { return load(ctx, s, bucketNetworks, s.Networks) },
		func() (int, error) { return load(ctx, s, bucketCenters, s.Centers) },
		func() (int, error) { return load(ctx, s, bucketDepartments, s.Departments) },
		func() (int, error) { return load(ctx, s, bucketFamilies, s.Families) },
		func() (int, error) { return load(ctx, s, bucketObjectives, s.Objectives) },
		func() (int, error) { return load(ctx, s, bucketMeetings, s.Meetings) },
		func() (int, error) { return load(ctx, s, bucketObservatory, s.Observatory) },
		func() (int, error) { return load(ctx, s, bucketCodes, s.Codes) },
		func() (int, error) { return load(ctx, s, bucketUsers, s.Users) },
		func() (int, error) { return load(ctx, s, bucketHelp, s.Help) },
	}
	for _, fn := range loaders {
		c, err := fn()
		if err != nil {
			return n, err
		}
		n += c
	}
	slog.Debug("persisted records loaded", "total", n)
	return n, nil
}

// mirror subscribes the persistence flush for one store. Mutations are
// mirrored synchronously; a backend failure is logged, never propagated,
// because the in-memory copy stays authoritative for the session.
func mirror[T store.Record](s *Service, bucket string, st *store.Store[T]) {
	st.Subscribe(func(ev store.Event) {
		metrics.MutationsTotal.WithLabelValues(bucket, string(ev.Op)).Inc()

		if s.backend == nil {
			return
		}
		ctx := context.Background()

		switch ev.Op {
		case store.OpDelete:
			if err := s.backend.Delete(ctx, bucket, ev.ID); err != nil {
				slog.Error("kv delete failed", "bucket", bucket, "id", ev.ID, "error", err)
			}
		case store.OpSet:
			for _, rec := range st.All() {
				putRecord(ctx, s.backend, bucket, rec)
			}
		default:
			if rec, ok := st.Get(ev.ID); ok {
				putRecord(ctx, s.backend, bucket, rec)
			}
		}
	})
}

func putRecord[T store.Record](ctx context.Context, backend kv.Store, bucket string, rec T) {
	payload, err := json.Marshal(rec)
	if err != nil {
		slog.Error("kv marshal failed", "bucket", bucket, "id", rec.EntityID(), "error", err)
		return
	}
	if err := backend.Put(ctx, bucket, rec.EntityID(), payload); err != nil {
		slog.Error("kv put failed", "bucket", bucket, "id", rec.EntityID(), "error", err)
	}
}

func load[T store.Record](ctx context.Context, s *Service, bucket string, st *store.Store[T]) (int, error) {
	payloads, err := s.backend.GetAll(ctx, bucket)
	if err != nil {
		return 0, fmt.Errorf("load bucket %s: %w", bucket, err)
	}
	if len(payloads) == 0 {
		return 0, nil
	}

	ids := make([]string, 0, len(payloads))
	for id := range payloads {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]T, 0, len(ids))
	for _, id := range ids {
		var rec T
		if err := json.Unmarshal(payloads[id], &rec); err != nil {
			return 0, fmt.Errorf("decode %s/%s: %w", bucket, id, err)
		}
		records = append(records, rec)
	}
	st.SetAll(records)
	return len(records), nil
}
