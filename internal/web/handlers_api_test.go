package web

import (
	"bytes"
	"math"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
)

func TestAPIProperties(t *testing.T) {
	rec := get(t, testServer(t), "/api/properties")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got engine.PropertyList
	decode(t, rec, &got)

	if len(got.Inputs) != 19 || len(got.Outputs) != 5 || len(got.All) != 24 {
		t.Fatalf("unexpected sizes %d/%d/%d", len(got.Inputs), len(got.Outputs), len(got.All))
	}
	if got.Inputs[0] != "Polymer 1" || got.Outputs[0] != "Viscosity" {
		t.Errorf("unexpected order: %q, %q", got.Inputs[0], got.Outputs[0])
	}
}

func TestAPIStats(t *testing.T) {
	var got []statEntry
	decode(t, get(t, testServer(t), "/api/stats"), &got)

	if len(got) != 24 {
		t.Fatalf("expected 24 entries, got %d", len(got))
	}
	byName := map[string]statEntry{}
	for _, e := range got {
		byName[e.Name] = e
	}
	oven := byName["Oven Temperature"]
	if oven.Min != 325 || oven.Max != 425 || oven.Kind != "input" {
		t.Errorf("unexpected oven stats %+v", oven)
	}
	visc := byName["Viscosity"]
	if visc.Min != 2160.8 || visc.Max != 3561.2 || visc.Kind != "output" {
		t.Errorf("unexpected viscosity stats %+v", visc)
	}
}

func TestAPIExperimentsFilter(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name    string
		filters []string
		count   int
		ids     []string
	}{
		{"no filter", nil, 25, nil},
		{"oven range", []string{"Oven Temperature:400:425"}, 11, nil},
		{
			"oven and viscosity",
			[]string{"Oven Temperature:400:425", "Viscosity:2500:100000"},
			3,
			[]string{"20170106_EXP_11", "20170108_EXP_38", "20170112_EXP_60"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var kv []string
			for _, f := range tt.filters {
				kv = append(kv, "filter", f)
			}
			rec := get(t, s, "/api/experiments"+query(kv...))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			var got idsResponse
			decode(t, rec, &got)
			if got.Count != tt.count || len(got.IDs) != tt.count || got.Total != 25 {
				t.Fatalf("unexpected response %+v", got)
			}
			for i, id := range tt.ids {
				if got.IDs[i] != id {
					t.Errorf("ids[%d] = %q, want %q", i, got.IDs[i], id)
				}
			}
		})
	}
}

func TestAPIBadRequests(t *testing.T) {
	s := testServer(t)

	tests := []struct {
		name   string
		target string
	}{
		{"unknown filter property", "/api/experiments" + query("filter", "Unobtainium:1:2")},
		{"malformed filter", "/api/experiments" + query("filter", "Viscosity:low:high")},
		{"inverted filter", "/api/experiments" + query("filter", "Viscosity:3000:2000")},
		{"unknown axis", "/api/points" + query("x", "Unobtainium")},
		{"group without property", "/api/groups" + query("boundaries", "1,2")},
		{"group without boundaries", "/api/groups" + query("property", "Viscosity")},
		{"group bad boundary", "/api/groups" + query("property", "Viscosity", "boundaries", "1,x")},
		{"group bad buckets", "/api/groups" + query("property", "Viscosity", "buckets", "0")},
		{"group too many buckets", "/api/groups" + query("property", "Viscosity", "buckets", "2000000")},
		{"group too many boundaries", "/api/groups" + query("property", "Viscosity", "boundaries", strings.Repeat("1,", engine.MaxBuckets+2))},
		{"group unknown property", "/api/groups" + query("property", "Unobtainium", "buckets", "2")},
		{"correlation missing b", "/api/correlation" + query("a", "Viscosity")},
		{"correlation unknown", "/api/correlation" + query("a", "Viscosity", "b", "Unobtainium")},
		{"matrix unknown", "/api/correlation/matrix" + query("props", "Viscosity,Unobtainium")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, s, tt.target)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			var body map[string]string
			decode(t, rec, &body)
			if body["error"] == "" {
				t.Error("expected an error message")
			}
		})
	}
}

func TestAPIExperiment(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/experiments/20170108_EXP_38")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got struct {
		ID         string `json:"id"`
		Experiment struct {
			Inputs  map[string]float64 `json:"inputs"`
			Outputs map[string]float64 `json:"outputs"`
		} `json:"experiment"`
		Formatted engine.ExperimentSummary `json:"formatted"`
	}
	decode(t, rec, &got)
	if got.ID != "20170108_EXP_38" || got.Formatted.DisplayID != "108_EXP_38" {
		t.Errorf("unexpected ids %q %q", got.ID, got.Formatted.DisplayID)
	}
	if len(got.Experiment.Inputs) != 19 || len(got.Experiment.Outputs) != 5 {
		t.Errorf("unexpected experiment %+v", got.Experiment)
	}

	if rec := get(t, s, "/api/experiments/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown id, got %d", rec.Code)
	}
}

func TestAPIGroups(t *testing.T) {
	s := testServer(t)

	var got groupsResponse
	decode(t, get(t, s, "/api/groups"+query("property", "Viscosity", "boundaries", "2000,2400,2800,3200")), &got)

	want := []int{10, 12, 1}
	if len(got.Groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(got.Groups))
	}
	for i, n := range want {
		if len(got.Groups[i].IDs) != n {
			t.Errorf("group %d: expected %d ids, got %d", i, n, len(got.Groups[i].IDs))
		}
	}
	if got.Total != 23 || got.Property != "Viscosity" {
		t.Errorf("unexpected summary %q total=%d", got.Property, got.Total)
	}

	var even groupsResponse
	decode(t, get(t, s, "/api/groups"+query("property", "Viscosity", "buckets", "4")), &even)
	if len(even.Groups) != 4 || even.Total != 25 {
		t.Errorf("expected 4 buckets covering 25 experiments, got %d/%d", len(even.Groups), even.Total)
	}

	var most groupsResponse
	decode(t, get(t, s, "/api/groups"+query("property", "Viscosity", "buckets", strconv.Itoa(engine.MaxBuckets))), &most)
	if len(most.Groups) != engine.MaxBuckets || most.Total != 25 {
		t.Errorf("expected %d buckets covering 25 experiments, got %d/%d", engine.MaxBuckets, len(most.Groups), most.Total)
	}
}

func TestAPICorrelation(t *testing.T) {
	s := testServer(t)

	var got correlationResponse
	decode(t, get(t, s, "/api/correlation"+query("a", "Oven Temperature", "b", "Viscosity")), &got)
	if math.Abs(got.R-(-0.40948849)) > 1e-6 {
		t.Errorf("unexpected r %v", got.R)
	}

	var m engine.CorrelationMatrix
	decode(t, get(t, s, "/api/correlation/matrix"+query("props", "Polymer 1, Tensile Strength")), &m)
	r, ok := m.At("Polymer 1", "Tensile Strength")
	if !ok || math.Abs(r-0.72958922) > 1e-6 {
		t.Errorf("unexpected matrix entry %v (ok=%v)", r, ok)
	}
	if d, _ := m.At("Polymer 1", "Polymer 1"); math.Abs(d-1) > 1e-9 {
		t.Errorf("expected unit diagonal, got %v", d)
	}
}

func TestAPIPoints(t *testing.T) {
	s := testServer(t)

	var got pointsResponse
	decode(t, get(t, s, "/api/points"+query("normalize", "true", "filter", "Oven Temperature:400:425")), &got)
	if !got.Normalized || got.Total != 25 || got.Count != 11 || len(got.Points) != 11 {
		t.Fatalf("unexpected response total=%d count=%d", got.Total, got.Count)
	}
	if got.Axes.X != "Polymer 1" || got.Axes.Color != "Tensile Strength" {
		t.Errorf("expected default axes, got %+v", got.Axes)
	}
	for _, p := range got.Points {
		for _, v := range []float64{p.X, p.Y, p.Z} {
			if v < -1 || v > 1 {
				t.Errorf("point %s not normalized: %+v", p.ID, p)
			}
		}
		if p.Experiment != nil {
			t.Errorf("point %s carries its experiment", p.ID)
		}
	}

	var raw pointsResponse
	decode(t, get(t, s, "/api/points"+query("x", "Oven Temperature")), &raw)
	if raw.Normalized || raw.Points[0].X != 375 {
		t.Errorf("expected raw oven temperature 375, got %+v", raw.Points[0])
	}
}

func TestAPIDataset(t *testing.T) {
	s := testServer(t)

	rec := get(t, s, "/api/dataset")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	etag := rec.Header().Get("ETag")
	if etag != s.etag {
		t.Errorf("expected etag %s, got %s", s.etag, etag)
	}
	ds, err := dataset.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("export does not decode: %v", err)
	}
	if ds.Len() != 25 || ds.At(0).ID != "20170102_EXP_56" {
		t.Errorf("unexpected export: %d experiments, first %s", ds.Len(), ds.At(0).ID)
	}

	cached := get(t, s, "/api/dataset", "If-None-Match", etag)
	if cached.Code != http.StatusNotModified || cached.Body.Len() != 0 {
		t.Errorf("expected empty 304, got %d with %d bytes", cached.Code, cached.Body.Len())
	}

	dl := get(t, s, "/api/dataset?download=1")
	if dl.Header().Get("Content-Disposition") == "" {
		t.Error("expected attachment header")
	}
}
