package model

import (
	"encoding/json"
	"testing"
)

func TestClusterID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ClusterID
		wantErr bool
	}{
		{name: "uuid string", input: `"6f1c2a9e-0000-4000-8000-000000000001"`, want: "6f1c2a9e-0000-4000-8000-000000000001"},
		{name: "integer", input: `42`, want: "42"},
		{name: "null", input: `null`, want: ""},
		{name: "boolean", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ClusterID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %s", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.want {
				t.Errorf("ClusterID = %q, want %q", id, tt.want)
			}
		})
	}
}

func TestDocumentCluster_DecodeWithoutClusterID(t *testing.T) {
	payload := `[{"rep_text":"Encrypt data at rest","documents":[{"id":"d1","priority":"Shall","subject":"Manufacturer","category":"Security","standard":"IEC 81001-5-1","original_text":"Data shall be encrypted."}]}]`

	var clusters []DocumentCluster
	if err := json.Unmarshal([]byte(payload), &clusters); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	if clusters[0].ClusterID != "" {
		t.Errorf("ClusterID = %q, want empty", clusters[0].ClusterID)
	}
	if clusters[0].Documents[0].HasProcessedText() {
		t.Error("document without processed_text reported HasProcessedText")
	}
}

func TestFilterCriteria_Values(t *testing.T) {
	f := FilterCriteria{Phase: "Design", Role: "Development Engineer", Standard: "IEC 62443"}
	v := f.Values()

	if got := v.Get("phase"); got != "Design" {
		t.Errorf("phase = %q", got)
	}
	if got := v.Get("role"); got != "Development Engineer" {
		t.Errorf("role = %q", got)
	}
	if got := v.Get("standard"); got != "IEC 62443" {
		t.Errorf("standard = %q", got)
	}
	for _, key := range []string{"subject", "category", "priority"} {
		if _, ok := v[key]; ok {
			t.Errorf("empty %s should be omitted", key)
		}
	}
}

func TestFilterCriteria_HasRequired(t *testing.T) {
	if (FilterCriteria{Phase: "Design"}).HasRequired() {
		t.Error("missing role should not satisfy HasRequired")
	}
	if (FilterCriteria{Role: "Other"}).HasRequired() {
		t.Error("missing phase should not satisfy HasRequired")
	}
	if !(FilterCriteria{Phase: "Design", Role: "Other"}).HasRequired() {
		t.Error("phase and role should satisfy HasRequired")
	}
}

func TestMatrix_Count(t *testing.T) {
	m := Matrix{"Design": {"Security Architect": 3}}
	if got := m.Count("Design", "Security Architect"); got != 3 {
		t.Errorf("Count = %d, want 3", got)
	}
	if got := m.Count("Disposal", "Other"); got != 0 {
		t.Errorf("Count for missing row = %d, want 0", got)
	}
}
