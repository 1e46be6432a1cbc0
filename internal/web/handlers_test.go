package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"redfp/internal/config"
	"redfp/internal/core"
	"redfp/internal/entity"
)

func testServer(t *testing.T) (*Server, *core.Service) {
	t.Helper()
	cfg := &config.Config{
		Server:  config.ServerConfig{Port: 8080, RequestTimeout: time.Minute, ShutdownTimeout: time.Second},
		Storage: config.StorageConfig{Driver: "memory"},
		Upload:  config.UploadConfig{MaxFileSize: 1 << 20},
		Rate:    config.RateLimitConfig{Enabled: false},
		Logging: config.LoggingConfig{Level: "error", Format: "text"},
	}
	service := core.NewService(nil)
	return NewServer(service, cfg), service
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(data)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeInto(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %s)", err, rec.Body.String())
	}
}

// ============================================================================
// Health
// ============================================================================

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t)
	rec := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

// ============================================================================
// Entity CRUD
// ============================================================================

func TestCenterCRUD(t *testing.T) {
	srv, _ := testServer(t)

	// create
	rec := doJSON(t, srv, http.MethodPost, "/api/centers", entity.Center{Code: "CIFP-1", Name: "Centro Uno", Phone: "922123456"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body.String())
	}
	var created entity.Center
	decodeInto(t, rec, &created)
	if created.ID == "" {
		t.Fatal("created center has no id")
	}

	// list
	rec = doJSON(t, srv, http.MethodGet, "/api/centers", nil)
	var list []entity.Center
	decodeInto(t, rec, &list)
	if len(list) != 1 || list[0].ID != created.ID {
		t.Fatalf("list = %+v", list)
	}

	// partial update: only the name changes
	rec = doJSON(t, srv, http.MethodPut, "/api/centers/"+created.ID, map[string]string{"name": "Renombrado"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated entity.Center
	decodeInto(t, rec, &updated)
	if updated.Name != "Renombrado" {
		t.Errorf("Name = %q, want Renombrado", updated.Name)
	}
	if updated.Code != "CIFP-1" || updated.Phone != "922123456" {
		t.Errorf("omitted fields must keep their values: %+v", updated)
	}

	// id is immutable through the API
	rec = doJSON(t, srv, http.MethodPut, "/api/centers/"+created.ID, map[string]string{"id": "hijacked"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodGet, "/api/centers/"+created.ID, nil)
	if rec.Code != http.StatusOK {
		t.Error("record must stay reachable under its original id")
	}

	// delete, twice: both 204
	for i := 0; i < 2; i++ {
		rec = doJSON(t, srv, http.MethodDelete, "/api/centers/"+created.ID, nil)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("delete #%d status = %d, want 204", i+1, rec.Code)
		}
	}

	// gone
	rec = doJSON(t, srv, http.MethodGet, "/api/centers/"+created.ID, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", rec.Code)
	}
}

func TestUpdate_UnknownID(t *testing.T) {
	srv, _ := testServer(t)
	rec := doJSON(t, srv, http.MethodPut, "/api/networks/ghost", map[string]string{"name": "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestCreate_InvalidJSON(t *testing.T) {
	srv, _ := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/centers", strings.NewReader("{broken"))
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// ============================================================================
// Entity-specific operations
// ============================================================================

func TestToggleObjectiveEndpoint(t *testing.T) {
	srv, service := testServer(t)
	obj := service.Objectives.Add(entity.Objective{Code: "OBJ-1", Active: true})

	rec := doJSON(t, srv, http.MethodPost, "/api/objectives/"+obj.ID+"/toggle", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var got entity.Objective
	decodeInto(t, rec, &got)
	if got.Active {
		t.Error("toggle should deactivate")
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/objectives/ghost/toggle", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("toggle unknown status = %d, want 404", rec.Code)
	}
}

func TestAssignmentsConflict(t *testing.T) {
	srv, service := testServer(t)
	n1 := service.Networks.Add(entity.Network{Code: "RED-1"})
	n2 := service.Networks.Add(entity.Network{Code: "RED-2"})
	c1 := service.Centers.Add(entity.Center{Code: "CIFP-1"})

	rec := doJSON(t, srv, http.MethodPut, "/api/networks/"+n1.ID+"/assignments",
		map[string]any{"centerIds": []string{c1.ID}})
	if rec.Code != http.StatusOK {
		t.Fatalf("first assignment status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPut, "/api/networks/"+n2.ID+"/assignments",
		map[string]any{"centerIds": []string{c1.ID}})
	if rec.Code != http.StatusConflict {
		t.Errorf("claimed center status = %d, want 409", rec.Code)
	}
}

func TestMeetingsRangeEndpoint(t *testing.T) {
	srv, service := testServer(t)
	base := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)
	service.Meetings.Add(entity.Meeting{Title: "in", Start: base, End: base.Add(time.Hour)})
	service.Meetings.Add(entity.Meeting{Title: "out", Start: base.AddDate(0, 1, 0), End: base.AddDate(0, 1, 0).Add(time.Hour)})

	path := fmt.Sprintf("/api/meetings/range?from=%s&to=%s",
		base.AddDate(0, 0, -1).Format(time.RFC3339),
		base.AddDate(0, 0, 1).Format(time.RFC3339))
	rec := doJSON(t, srv, http.MethodGet, path, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []entity.Meeting
	decodeInto(t, rec, &got)
	if len(got) != 1 || got[0].Title != "in" {
		t.Errorf("range = %+v, want only the meeting inside the window", got)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/meetings/range?from=not-a-time", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad from status = %d, want 400", rec.Code)
	}
}

func TestVisibleCentersScoped(t *testing.T) {
	srv, service := testServer(t)
	c1 := service.Centers.Add(entity.Center{Code: "CIFP-1"})
	service.Centers.Add(entity.Center{Code: "CIFP-2"})

	// no headers: admin scope, sees everything
	rec := doJSON(t, srv, http.MethodGet, "/api/centers/visible", nil)
	var all []entity.Center
	decodeInto(t, rec, &all)
	if len(all) != 2 {
		t.Errorf("admin sees %d centers, want 2", len(all))
	}

	// center admin bound to c1
	req := httptest.NewRequest(http.MethodGet, "/api/centers/visible", nil)
	req.Header.Set("X-Role", string(entity.RoleCenterAdmin))
	req.Header.Set("X-Center-ID", c1.ID)
	rr := httptest.NewRecorder()
	srv.Router().ServeHTTP(rr, req)
	var own []entity.Center
	decodeInto(t, rr, &own)
	if len(own) != 1 || own[0].ID != c1.ID {
		t.Errorf("scoped centers = %+v, want only %s", own, c1.ID)
	}
}

// ============================================================================
// Imports
// ============================================================================

func multipartUpload(t *testing.T, field, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write([]byte(content))
	w.Close()
	return &buf, w.FormDataContentType()
}

func TestImportEndpoint(t *testing.T) {
	srv, service := testServer(t)

	body, contentType := multipartUpload(t, "file", "centros.csv",
		"code,name,email\nCIFP-1,Centro Uno,ok@fp.es\nCIFP-2,Centro Dos,bad-email\n")
	req := httptest.NewRequest(http.MethodPost, "/api/import/centers", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var report core.ImportReport
	decodeInto(t, rec, &report)
	if report.Imported != 1 || report.Stats.Errors != 1 {
		t.Errorf("report = %+v, want 1 imported and 1 error", report)
	}
	if service.Centers.Len() != 1 {
		t.Errorf("Centers.Len = %d, want 1", service.Centers.Len())
	}
}

func TestImportEndpoint_UnknownKey(t *testing.T) {
	srv, _ := testServer(t)

	body, contentType := multipartUpload(t, "file", "x.csv", "a\n1\n")
	req := httptest.NewRequest(http.MethodPost, "/api/import/unknown", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestImportEndpoint_MissingFile(t *testing.T) {
	srv, _ := testServer(t)

	body, contentType := multipartUpload(t, "wrong-field", "x.csv", "a\n1\n")
	req := httptest.NewRequest(http.MethodPost, "/api/import/centers", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestTemplateDownload(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/import/centers/template", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "plantilla_centers.csv") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if !strings.HasPrefix(rec.Body.String(), "code,name") {
		t.Errorf("template body = %q", rec.Body.String())
	}
}

func TestImportDefinitions(t *testing.T) {
	srv, _ := testServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/import/definitions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var defs []struct {
		Key     string   `json:"key"`
		Columns []string `json:"columns"`
	}
	decodeInto(t, rec, &defs)
	if len(defs) < 4 {
		t.Fatalf("definitions = %d, want at least 4", len(defs))
	}
	for _, d := range defs {
		if d.Key == "" || len(d.Columns) == 0 {
			t.Errorf("incomplete definition: %+v", d)
		}
	}
}
