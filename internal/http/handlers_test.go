package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vigia-data/internal/catalog"
	"vigia-data/internal/checklist"
	"vigia-data/internal/service"
	"vigia-data/internal/store"

	"go.uber.org/zap"
)

type fakeKV struct {
	data map[string]string
}

func (f *fakeKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.data[key]
	if !ok {
		return "", store.ErrMiss
	}
	return v, nil
}

func (f *fakeKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	f.data[key] = value
	return nil
}

func (f *fakeKV) Delete(ctx context.Context, key string) error {
	delete(f.data, key)
	return nil
}

func (f *fakeKV) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(f.data))
	for k := range f.data {
		keys = append(keys, k)
	}
	return keys, nil
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	logger := zap.NewNop()

	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	residences := service.NewResidenceService(cat, logger)
	reports := service.NewReportService(cat, nil, logger)
	tracker := checklist.NewTracker(&fakeKV{data: map[string]string{}}, logger)

	router := NewRouter(logger)
	router.RegisterResidenceRoutes(NewResidenceHandler(residences, logger))
	router.RegisterChecklistRoutes(NewChecklistHandler(tracker, residences, logger))
	router.RegisterReportRoutes(NewReportHandler(reports, logger))
	return router
}

func doRequest(t *testing.T, router *Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSearchResidences(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/residences", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":2000`) {
		t.Fatalf("expected wrapper code=2000, got: %s", body)
	}
	if !strings.Contains(body, `"totalCount":11`) {
		t.Fatalf("expected full catalog count, got: %s", body)
	}
}

func TestSearchResidences_Filtered(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet,
		"/vigia/api/v1/residences?distrito=SAN+MIGUEL&score_min=50", "")
	body := w.Body.String()
	if !strings.Contains(body, `"PPAAM02-2025"`) {
		t.Fatalf("expected the San Miguel residence, got: %s", body)
	}
	if !strings.Contains(body, `"count":1`) {
		t.Fatalf("expected one hit, got: %s", body)
	}
}

func TestRankResidences_InvalidField(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/residences/rank?field=zipCode", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"type":"error"`) {
		t.Fatalf("expected error wrapper, got: %s", w.Body.String())
	}
}

func TestGetResidenceByID(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/residences/PPLJF01-2025", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":"PPLJF01-2025"`) {
		t.Fatalf("expected residence detail, got: %s", w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/residences/PPXX99-2025", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"code":-1`) {
		t.Fatalf("expected error envelope, got: %s", w.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodPost, "/vigia/api/v1/residences", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestDistricts(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/districts", "")
	body := w.Body.String()
	for _, d := range []string{"SAN ISIDRO", "MIRAFLORES", "SANTIAGO DE SURCO", "LA MOLINA", "SAN MIGUEL"} {
		if !strings.Contains(body, d) {
			t.Fatalf("expected district %q, got: %s", d, body)
		}
	}
}

func TestDashboardStats(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/stats", "")
	body := w.Body.String()
	if !strings.Contains(body, `"districtSummary"`) || !strings.Contains(body, `"topRisk"`) || !strings.Contains(body, `"alerts"`) {
		t.Fatalf("expected dashboard sections, got: %s", body)
	}
}

func TestEstimateETA(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/eta/PPLJF01-2025", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, `"distrito":"SANTIAGO DE SURCO"`) {
		t.Fatalf("expected derived district, got: %s", body)
	}
	if !strings.Contains(body, `"serviceType":"Policía"`) {
		t.Fatalf("expected police results, got: %s", body)
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/eta/PPLJF01-2025?service=drones", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown service, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/eta/PPXX99-2025", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown residence, got %d", w.Code)
	}
}

func TestMapMarkers(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/map/markers", "")
	body := w.Body.String()
	if !strings.Contains(body, `"kind":"residencia"`) {
		t.Fatalf("expected residence markers, got: %s", body)
	}
	if !strings.Contains(body, `"services"`) {
		t.Fatalf("expected service markers, got: %s", body)
	}
}

func TestChecklistFlow(t *testing.T) {
	router := newTestRouter(t)

	// fresh checklist from the template
	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/checklist/PPLJF01-2025", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"completionPercentage":0`) {
		t.Fatalf("expected fresh checklist, got: %s", w.Body.String())
	}

	// toggle one item
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/toggle",
		`{"item_id":"acc-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"completionPercentage":5`) {
		t.Fatalf("expected 5%% completion, got: %s", w.Body.String())
	}

	// toggle requires an item id
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/toggle", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	// unknown item id
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/toggle",
		`{"item_id":"acc-99"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	// notes
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/notes",
		`{"item_id":"per-1","notes":"revisar cerco"}`)
	if !strings.Contains(w.Body.String(), `"revisar cerco"`) {
		t.Fatalf("expected notes persisted, got: %s", w.Body.String())
	}

	// clear needs explicit confirmation
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/clear", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without confirmation, got %d", w.Code)
	}
	w = doRequest(t, router, http.MethodPost, "/vigia/api/v1/checklist/PPLJF01-2025/clear",
		`{"confirm":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"completionPercentage":0`) {
		t.Fatalf("expected cleared checklist, got: %s", w.Body.String())
	}
}

func TestChecklist_UnknownResidence(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/checklist/PPXX99-2025", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestChecklistExport(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/checklist/PPLJF01-2025/export", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "checklist_PPLJF01-2025_") {
		t.Fatalf("expected download disposition, got: %q", cd)
	}
	if !strings.Contains(w.Body.String(), "CHECKLIST DE SEGURIDAD") {
		t.Fatalf("expected text export, got: %s", w.Body.String())
	}
}

func TestReportDownloads(t *testing.T) {
	router := newTestRouter(t)

	// txt is the default format
	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/report/PPLJF01-2025", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "REPORTE DE EVALUACIÓN DE SEGURIDAD") {
		t.Fatalf("expected report body, got: %s", w.Body.String())
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/report/PPLJF01-2025?format=xlsx", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Fatalf("expected xlsx content type, got %q", ct)
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/report/PPLJF01-2025?format=pdf", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown format, got %d", w.Code)
	}

	w = doRequest(t, router, http.MethodGet, "/vigia/api/v1/report/PPXX99-2025", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestComparisonExport(t *testing.T) {
	router := newTestRouter(t)

	w := doRequest(t, router, http.MethodGet, "/vigia/api/v1/report/comparison?risk_level=alto", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "reporte_comparativa_") {
		t.Fatalf("expected comparison download, got: %q", cd)
	}
}
