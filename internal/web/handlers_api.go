package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/emiliopalmerini/polymer-explorer/internal/dataset"
	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/plot"
)

type statEntry struct {
	Name string  `json:"name"`
	Kind string  `json:"kind"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// statEntries lists property ranges in schema order.
func (s *Server) statEntries() []statEntry {
	schema := s.engine.Dataset().Schema()
	stats := s.engine.ComputeStats()

	entries := make([]statEntry, 0, schema.Len())
	for _, name := range schema.All() {
		p, _ := schema.Lookup(name)
		r := stats[name]
		entries = append(entries, statEntry{Name: name, Kind: p.Kind.String(), Min: r.Min, Max: r.Max})
	}
	return entries
}

func (s *Server) handleAPIProperties(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.engine.ListProperties())
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.statEntries())
}

type pointsResponse struct {
	Axes       engine.Axes        `json:"axes"`
	Normalized bool               `json:"normalized"`
	Total      int                `json:"total"`
	Count      int                `json:"count"`
	Points     []domain.DataPoint `json:"points"`
}

func (s *Server) handleAPIPoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	axes, err := s.parseAxes(q)
	if err != nil {
		s.fail(w, err)
		return
	}
	filters, err := s.parseFilters(q)
	if err != nil {
		s.fail(w, err)
		return
	}

	stats := s.engine.ComputeStats()
	points, err := s.engine.CreateDataPoints(axes, stats)
	if err != nil {
		s.fail(w, err)
		return
	}
	total := len(points)
	if points, err = s.engine.FilterPoints(points, filters); err != nil {
		s.fail(w, err)
		return
	}

	normalize, _ := strconv.ParseBool(q.Get("normalize"))
	if normalize {
		n, err := plot.NewNormalizer(axes, stats)
		if err != nil {
			s.fail(w, err)
			return
		}
		points = n.Points(points)
	}
	for i := range points {
		points[i].Experiment = nil
	}

	s.writeJSON(w, http.StatusOK, pointsResponse{
		Axes:       axes,
		Normalized: normalize,
		Total:      total,
		Count:      len(points),
		Points:     points,
	})
}

type idsResponse struct {
	IDs   []string `json:"ids"`
	Count int      `json:"count"`
	Total int      `json:"total"`
}

func (s *Server) handleAPIExperiments(w http.ResponseWriter, r *http.Request) {
	filters, err := s.parseFilters(r.URL.Query())
	if err != nil {
		s.fail(w, err)
		return
	}
	ids, err := s.engine.FilterExperiments(filters)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, idsResponse{IDs: ids, Count: len(ids), Total: s.engine.Dataset().Len()})
}

type experimentResponse struct {
	ID         string                   `json:"id"`
	Experiment *domain.Experiment       `json:"experiment"`
	Formatted  engine.ExperimentSummary `json:"formatted"`
}

func (s *Server) handleAPIExperiment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	exp, ok := s.engine.GetExperiment(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("experiment %q not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, experimentResponse{
		ID:         exp.ID,
		Experiment: exp,
		Formatted:  engine.Summarize(exp),
	})
}

type groupsResponse struct {
	engine.RangeGroups
	Total int `json:"total"`
}

// handleAPIGroups buckets by explicit boundaries=a,b,c or by buckets=n even
// slices of the property range.
func (s *Server) handleAPIGroups(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	prop := q.Get("property")
	if prop == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: property is required", errBadRequest))
		return
	}
	if err := s.checkProperty(prop); err != nil {
		s.fail(w, err)
		return
	}

	var boundaries []float64
	switch {
	case q.Get("boundaries") != "":
		b, err := parseFloats(q.Get("boundaries"))
		if err != nil {
			s.fail(w, err)
			return
		}
		if len(b) > engine.MaxBuckets+1 {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: at most %d boundaries", errBadRequest, engine.MaxBuckets+1))
			return
		}
		boundaries = b
	case q.Get("buckets") != "":
		n, err := strconv.Atoi(q.Get("buckets"))
		if err != nil || n < 1 || n > engine.MaxBuckets {
			s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: buckets must be an integer between 1 and %d", errBadRequest, engine.MaxBuckets))
			return
		}
		boundaries = engine.EvenBoundaries(s.engine.ComputeStats()[prop], n)
	default:
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: boundaries or buckets is required", errBadRequest))
		return
	}

	groups, err := s.engine.GroupByRanges(prop, boundaries)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, groupsResponse{RangeGroups: groups, Total: groups.Total()})
}

type correlationResponse struct {
	A string  `json:"a"`
	B string  `json:"b"`
	R float64 `json:"r"`
}

func (s *Server) handleAPICorrelation(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: a and b are required", errBadRequest))
		return
	}
	rho, err := s.engine.Correlation(a, b)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, correlationResponse{A: a, B: b, R: rho})
}

func (s *Server) handleAPICorrelationMatrix(w http.ResponseWriter, r *http.Request) {
	m, err := s.engine.CorrelationMatrix(splitList(r.URL.Query().Get("props")))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

// handleAPIDataset exports the dataset in its original key order.
func (s *Server) handleAPIDataset(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("ETag", s.etag)
	if r.Header.Get("If-None-Match") == s.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	var buf bytes.Buffer
	if err := dataset.Encode(&buf, s.engine.Dataset()); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if r.URL.Query().Get("download") != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="dataset.json"`)
	}
	_, _ = buf.WriteTo(w)
}
