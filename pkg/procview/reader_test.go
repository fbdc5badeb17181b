package procview

import (
	"net/url"
	"testing"

	"github.com/Sternrassler/medshield-admin/pkg/model"
	"github.com/google/go-cmp/cmp"
)

func TestReadFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  model.FilterCriteria
	}{
		{
			name:  "all parameters",
			query: "phase=Design&role=Security+Architect&subject=SBOM&category=Supply&standard=IEC+81001-5-1&priority=Shall",
			want: model.FilterCriteria{
				Phase: "Design", Role: "Security Architect", Subject: "SBOM",
				Category: "Supply", Standard: "IEC 81001-5-1", Priority: "Shall",
			},
		},
		{
			name:  "required only",
			query: "phase=Design&role=Other",
			want:  model.FilterCriteria{Phase: "Design", Role: "Other"},
		},
		{
			name:  "trimmed and blank",
			query: "phase=+Design+&role=+++&subject=",
			want:  model.FilterCriteria{Phase: "Design"},
		},
		{
			name:  "empty",
			query: "",
			want:  model.FilterCriteria{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, ReadFilter(q)); diff != "" {
				t.Errorf("ReadFilter mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReadPage(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 1},
		{"page=1", 1},
		{"page=7", 7},
		{"page=0", 1},
		{"page=-2", 1},
		{"page=abc", 1},
	}

	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		if got := ReadPage(q); got != tt.want {
			t.Errorf("ReadPage(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestQuery_RoundTrip(t *testing.T) {
	f := model.FilterCriteria{Phase: "Design", Role: "Other", Priority: "Shall"}
	e := NewExpansion("b", "a")

	q := Query(f, 3, e)

	if got := ReadFilter(q); got != f {
		t.Errorf("ReadFilter = %+v, want %+v", got, f)
	}
	if got := ReadPage(q); got != 3 {
		t.Errorf("ReadPage = %d, want 3", got)
	}
	if diff := cmp.Diff([]string{"a", "b"}, ReadExpansion(q).Keys()); diff != "" {
		t.Errorf("expansion mismatch (-want +got):\n%s", diff)
	}

	first := Query(f, 1, nil)
	if first.Has(ParamPage) || first.Has(ParamOpen) {
		t.Errorf("page 1 without expansion should be omitted: %v", first.Encode())
	}
}
