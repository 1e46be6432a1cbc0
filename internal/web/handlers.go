package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"redfp/internal/core"
	"redfp/internal/entity"
	"redfp/internal/store"
	"redfp/internal/web/middleware"
)

// mountResource wires the standard CRUD routes for one entity store:
//
//	GET    {path}       list in insertion order
//	POST   {path}       create, id assigned by the store
//	GET    {path}/{id}  fetch one
//	PUT    {path}/{id}  partial update, omitted fields keep their values
//	DELETE {path}/{id}  delete, repeat deletes are 204 too
func mountResource[T store.Record](r chi.Router, path string, st *store.Store[T]) {
	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, st.All())
	})

	r.Post(path, func(w http.ResponseWriter, req *http.Request) {
		var rec T
		if err := json.NewDecoder(req.Body).Decode(&rec); err != nil {
			writeError(w, req, http.StatusBadRequest, "cuerpo JSON inválido: "+err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, st.Add(rec))
	})

	r.Get(path+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		rec, ok := st.Get(id)
		if !ok {
			respondError(w, req, fmt.Errorf("%s: %w", id, store.ErrNotFound))
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	r.Put(path+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "id")
		var patch map[string]json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
			writeError(w, req, http.StatusBadRequest, "cuerpo JSON inválido: "+err.Error())
			return
		}
		delete(patch, "id")

		var mergeErr error
		err := st.Update(id, func(rec *T) {
			mergeErr = mergeInto(rec, patch)
		})
		if err != nil {
			respondError(w, req, err)
			return
		}
		if mergeErr != nil {
			writeError(w, req, http.StatusBadRequest, "cuerpo JSON inválido: "+mergeErr.Error())
			return
		}
		rec, _ := st.Get(id)
		writeJSON(w, http.StatusOK, rec)
	})

	r.Delete(path+"/{id}", func(w http.ResponseWriter, req *http.Request) {
		st.Delete(chi.URLParam(req, "id"))
		w.WriteHeader(http.StatusNoContent)
	})
}

// mergeInto applies a shallow JSON merge: fields present in patch replace
// the record's, everything else keeps its value. The round trip through the
// record's own JSON form keeps the merge in sync with the wire format.
func mergeInto[T any](rec *T, patch map[string]json.RawMessage) error {
	current, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(current, &merged); err != nil {
		return err
	}
	for k, v := range patch {
		merged[k] = v
	}
	out, err := json.Marshal(merged)
	if err != nil {
		return err
	}
	return json.Unmarshal(out, rec)
}

func (s *Server) handleToggleObjective(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.service.ToggleObjectiveActive(id); err != nil {
		respondError(w, r, err)
		return
	}
	rec, _ := s.service.Objectives.Get(id)
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleAssignableCenters(w http.ResponseWriter, r *http.Request) {
	centers, err := s.service.AssignableCenters(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, centers)
}

func (s *Server) handleSetAssignments(w http.ResponseWriter, r *http.Request) {
	var body struct {
		HeadquarterID string   `json:"headquarterId"`
		CenterIDs     []string `json:"centerIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "cuerpo JSON inválido: "+err.Error())
		return
	}
	id := chi.URLParam(r, "id")
	if err := s.service.SetNetworkAssignments(id, body.HeadquarterID, body.CenterIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, core.ErrCenterClaimed) {
			respondError(w, r, err)
			return
		}
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	rec, _ := s.service.Networks.Get(id)
	writeJSON(w, http.StatusOK, rec)
}

// handleMeetingsRange serves GET /api/meetings/range?from=...&to=... with
// RFC 3339 bounds. Both parameters are optional.
func (s *Server) handleMeetingsRange(w http.ResponseWriter, r *http.Request) {
	parse := func(name string) (time.Time, error) {
		v := r.URL.Query().Get(name)
		if v == "" {
			return time.Time{}, nil
		}
		return time.Parse(time.RFC3339, v)
	}
	from, err := parse("from")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "parámetro from inválido: "+err.Error())
		return
	}
	to, err := parse("to")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "parámetro to inválido: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.service.MeetingsBetween(from, to))
}

func (s *Server) handleHelpSections(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.HelpSections())
}

func (s *Server) handleVisibleCenters(w http.ResponseWriter, r *http.Request) {
	sc := middleware.ScopeFrom(r.Context())
	writeJSON(w, http.StatusOK, s.service.VisibleCenters(sc))
}

func (s *Server) handleListCodes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Codes.All())
}

func (s *Server) handleCreateCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role      entity.Role `json:"role"`
		NetworkID string      `json:"networkId"`
		CenterID  string      `json:"centerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "cuerpo JSON inválido: "+err.Error())
		return
	}
	code, err := s.service.NewRegistrationCode(body.Role, body.NetworkID, body.CenterID)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, code)
}

func (s *Server) handleRedeemCode(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, http.StatusBadRequest, "cuerpo JSON inválido: "+err.Error())
		return
	}
	code, err := s.service.RedeemCode(body.Code)
	if err != nil {
		writeError(w, r, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, code)
}
