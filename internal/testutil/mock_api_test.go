package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/Sternrassler/medshield-admin/pkg/model"
)

func get(t *testing.T, m *MockAPI, path, token, etag string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, m.URL()+path, nil)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, body
}

func TestMockAPI_RequiresToken(t *testing.T) {
	m := NewMockAPI()
	defer m.Close()
	Seed(m, "Design", "Other", 3)

	resp, _ := get(t, m, "/proc/count?phase=Design&role=Other", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", resp.StatusCode)
	}

	resp, _ = get(t, m, "/me", DisabledToken, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("disabled user: StatusCode = %d, want 401", resp.StatusCode)
	}
}

func TestMockAPI_CountAndList(t *testing.T) {
	m := NewMockAPI()
	defer m.Close()
	Seed(m, "Design", "Other", 120)
	m.AddCluster(Cluster(0, "Disposal", "Other"))

	_, body := get(t, m, "/proc/count?phase=Design&role=Other", AdminToken, "")
	if string(body) != "120" {
		t.Errorf("count = %s, want 120", body)
	}

	_, body = get(t, m, "/proc/list?phase=Design&role=Other&skip=100&limit=50", AdminToken, "")
	var clusters []model.DocumentCluster
	if err := json.Unmarshal(body, &clusters); err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 20 {
		t.Errorf("len = %d, want 20", len(clusters))
	}
	if m.LastQuery("/proc/list") != "phase=Design&role=Other&skip=100&limit=50" {
		t.Errorf("LastQuery = %q", m.LastQuery("/proc/list"))
	}
}

func TestMockAPI_ConditionalRequest(t *testing.T) {
	m := NewMockAPI()
	defer m.Close()
	Seed(m, "Design", "Other", 1)

	resp, _ := get(t, m, "/proc/standards", AdminToken, "")
	etag := resp.Header.Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	resp, _ = get(t, m, "/proc/standards", AdminToken, etag)
	if resp.StatusCode != http.StatusNotModified {
		t.Errorf("StatusCode = %d, want 304", resp.StatusCode)
	}
	if m.GetConditionalCount() != 1 {
		t.Errorf("ConditionalCount = %d, want 1", m.GetConditionalCount())
	}
	if m.PathCount("/proc/standards") != 2 {
		t.Errorf("PathCount = %d, want 2", m.PathCount("/proc/standards"))
	}
}

func TestMockAPI_Matrix(t *testing.T) {
	m := NewMockAPI()
	defer m.Close()
	Seed(m, "Design", "Security Architect", 4)

	_, body := get(t, m, "/proc/matrix", AdminToken, "")
	var matrix model.Matrix
	if err := json.Unmarshal(body, &matrix); err != nil {
		t.Fatal(err)
	}
	if got := matrix.Count("Design", "Security Architect"); got != 4 {
		t.Errorf("Design/Security Architect = %d, want 4", got)
	}
	if got := matrix.Count("Disposal", "Other"); got != 0 {
		t.Errorf("Disposal/Other = %d, want 0", got)
	}
}

func TestMockAPI_SetResponseOverrides(t *testing.T) {
	m := NewMockAPI()
	defer m.Close()

	m.SetResponse("/proc/count", NewServerErrorResponse())
	resp, _ := get(t, m, "/proc/count", "", "")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", resp.StatusCode)
	}

	m.ClearHandler("/proc/count")
	resp, _ = get(t, m, "/proc/count", "", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after ClearHandler StatusCode = %d, want 401", resp.StatusCode)
	}
}
