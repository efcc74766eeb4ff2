package datadog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(ts *httptest.Server) API {
	return NewClient("datadoghq.com", "api-key-1", "app-key-1", WithBaseURL(ts.URL))
}

func TestAuthHeaders(t *testing.T) {
	var gotAPIKey, gotAppKey string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get(APIKeyHeader)
		gotAppKey = r.Header.Get(AppKeyHeader)
		fmt.Fprint(w, `[]`)
	}))
	defer ts.Close()

	client := newTestClient(ts)
	if _, err := client.ListMonitors(0, 100); err != nil {
		t.Fatalf("ListMonitors() error = %v", err)
	}
	if gotAPIKey != "api-key-1" {
		t.Errorf("DD-API-KEY = %q, want api-key-1", gotAPIKey)
	}
	if gotAppKey != "app-key-1" {
		t.Errorf("DD-APPLICATION-KEY = %q, want app-key-1", gotAppKey)
	}
}

func TestListMonitorsPaginationParams(t *testing.T) {
	var gotPage, gotSize string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/monitor" {
			t.Errorf("path = %q, want /api/v1/monitor", r.URL.Path)
		}
		gotPage = r.URL.Query().Get("page")
		gotSize = r.URL.Query().Get("page_size")
		fmt.Fprint(w, `[{"id": 1, "name": "a"}, {"id": 2, "name": "b"}]`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).ListMonitors(3, 100)
	if err != nil {
		t.Fatalf("ListMonitors() error = %v", err)
	}
	if gotPage != "3" || gotSize != "100" {
		t.Errorf("query = page=%s page_size=%s, want 3/100", gotPage, gotSize)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID() != "1" || items[1].Label("") != "b" {
		t.Errorf("unexpected items decoded: %v %v", items[0].ID(), items[1].Label(""))
	}
}

func TestListRolesV2Params(t *testing.T) {
	var query string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/roles" {
			t.Errorf("path = %q, want /api/v2/roles", r.URL.Path)
		}
		query = r.URL.RawQuery
		fmt.Fprint(w, `{"data": [{"id": "r1", "attributes": {"name": "Admin"}}]}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).ListRoles(2, 100)
	if err != nil {
		t.Fatalf("ListRoles() error = %v", err)
	}
	if len(items) != 1 || items[0].Label("") != "Admin" {
		t.Fatalf("unexpected items: %+v", items)
	}
	// page[size]/page[number] must survive URL encoding.
	req, _ := http.NewRequest(http.MethodGet, "http://x/?"+query, nil)
	q := req.URL.Query()
	if q.Get("page[size]") != "100" || q.Get("page[number]") != "2" {
		t.Errorf("query = %q, missing v2 page params", query)
	}
}

func TestGetDashboard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/dashboard/abc-123" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "abc-123", "title": "T", "widgets": []}`)
	}))
	defer ts.Close()

	raw, err := newTestClient(ts).GetDashboard("abc-123")
	if err != nil {
		t.Fatalf("GetDashboard() error = %v", err)
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("payload not JSON: %v", err)
	}
	if payload["title"] != "T" {
		t.Errorf("title = %v", payload["title"])
	}
}

func TestListNotebooksEnvelope(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [{"id": 99, "attributes": {"name": "oncall runbook"}}], "meta": {"page": {}}}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).ListNotebooks()
	if err != nil {
		t.Fatalf("ListNotebooks() error = %v", err)
	}
	if len(items) != 1 || items[0].ID() != "99" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListNotebooksBareArray(t *testing.T) {
	// Older deployments return a bare array instead of a data envelope.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"id": 7, "name": "nb"}]`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).ListNotebooks()
	if err != nil {
		t.Fatalf("ListNotebooks() error = %v", err)
	}
	if len(items) != 1 || items[0].ID() != "7" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListNotebooksEmptyOrg(t *testing.T) {
	// Orgs without notebooks answer with a null (or missing) data key.
	for _, body := range []string{
		`{"data": null, "meta": {"page": {"total_count": 0}}}`,
		`{"meta": {"page": {"total_count": 0}}}`,
		`[]`,
	} {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, body)
		}))

		items, err := newTestClient(ts).ListNotebooks()
		ts.Close()
		if err != nil {
			t.Errorf("ListNotebooks() with body %s: %v", body, err)
		}
		if len(items) != 0 {
			t.Errorf("ListNotebooks() with body %s = %d items, want 0", body, len(items))
		}
	}
}

func TestSearchSLOsNestedShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/slo/search" {
			t.Errorf("path = %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"data": {"attributes": {"slos": [{"id": "slo-1", "name": "availability"}]}}}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).SearchSLOs()
	if err != nil {
		t.Fatalf("SearchSLOs() error = %v", err)
	}
	if len(items) != 1 || items[0].ID() != "slo-1" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestSearchSLOsListShape(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": [{"id": "slo-2", "name": "latency"}]}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).SearchSLOs()
	if err != nil {
		t.Fatalf("SearchSLOs() error = %v", err)
	}
	if len(items) != 1 || items[0].Label("") != "latency" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestSearchSLOsFallsBackToList(t *testing.T) {
	var paths []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/v1/slo/search" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"errors": ["404 Not Found"]}`)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": "slo-3", "name": "old style"}]}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).SearchSLOs()
	if err != nil {
		t.Fatalf("SearchSLOs() error = %v", err)
	}
	if len(items) != 1 || items[0].ID() != "slo-3" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if len(paths) != 2 || paths[1] != "/api/v1/slo" {
		t.Errorf("expected fallback to /api/v1/slo, got %v", paths)
	}
}

func TestGetRestrictionPolicyNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"errors": ["Restriction policy not found"]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).GetRestrictionPolicy("monitor:123")
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestAPIErrorMessageParsing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"errors": ["Forbidden: invalid application key"]}`)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).ListDashboards()
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Message != "Forbidden: invalid application key" {
		t.Errorf("Message = %q", apiErr.Message)
	}
}

func TestListCatalogEntitiesPagination(t *testing.T) {
	var offsets []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		offset := r.URL.Query().Get("page[offset]")
		offsets = append(offsets, offset)
		if offset == "0" {
			// Emit a full page to force a second request.
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"data": [`)
			for i := 0; i < 100; i++ {
				if i > 0 {
					fmt.Fprint(w, ",")
				}
				fmt.Fprintf(w, `{"id": "e%d", "attributes": {"name": "svc-%d"}}`, i, i)
			}
			fmt.Fprint(w, `]}`)
			return
		}
		fmt.Fprint(w, `{"data": [{"id": "last", "attributes": {"name": "tail"}}]}`)
	}))
	defer ts.Close()

	items, err := newTestClient(ts).ListCatalogEntities()
	if err != nil {
		t.Fatalf("ListCatalogEntities() error = %v", err)
	}
	if len(items) != 101 {
		t.Fatalf("got %d items, want 101", len(items))
	}
	if len(offsets) != 2 || offsets[1] != "100" {
		t.Errorf("offsets = %v, want [0 100]", offsets)
	}
}

func TestConnectionError(t *testing.T) {
	// Point at a server that is already closed.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := newTestClient(ts).ListHostTags()
	if err == nil {
		t.Fatal("expected connection error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0 for connection errors", apiErr.StatusCode)
	}
}
