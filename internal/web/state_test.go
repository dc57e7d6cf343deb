package web

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/plot"
)

func TestParseStateDefaults(t *testing.T) {
	s := testServer(t)
	st, err := s.parseState(httptest.NewRequest("GET", "/", nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.axes != s.engine.DefaultAxes() {
		t.Errorf("expected default axes, got %+v", st.axes)
	}
	if st.filters.Len() != 0 || st.selected != "" {
		t.Errorf("expected empty state, got %+v", st)
	}
	if st.camera != plot.DefaultCamera {
		t.Errorf("expected default camera, got %+v", st.camera)
	}
	if v := st.values(); v.Has("yaw") || v.Has("selected") || v.Has("filter") {
		t.Errorf("default state should only carry axes, got %v", v)
	}
}

func TestParseStateClampsCamera(t *testing.T) {
	s := testServer(t)
	st, err := s.parseState(httptest.NewRequest("GET", "/"+query("dist", "99", "pitch", "-120"), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.camera.Distance != plot.MaxDistance || st.camera.Pitch != -89 {
		t.Errorf("camera not clamped: %+v", st.camera)
	}
}

func TestParseStateUnknownProperty(t *testing.T) {
	s := testServer(t)
	_, err := s.parseState(httptest.NewRequest("GET", "/"+query("color", "Unobtainium"), nil))
	if !errors.Is(err, domain.ErrUnknownProperty) {
		t.Errorf("expected ErrUnknownProperty, got %v", err)
	}
}

func TestViewStateCopies(t *testing.T) {
	s := testServer(t)
	st, err := s.parseState(httptest.NewRequest("GET", "/"+query("filter", "Viscosity:1:2", "filter", "Cure Time:3:4"), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cleared := st.withoutFilters()
	removed := st.withoutFilter("Viscosity")
	selected := st.withSelected("20170102_EXP_56")

	if st.filters.Len() != 2 {
		t.Errorf("original state changed: %d filters", st.filters.Len())
	}
	if cleared.filters.Len() != 0 || removed.filters.Len() != 1 {
		t.Errorf("unexpected filter counts %d/%d", cleared.filters.Len(), removed.filters.Len())
	}
	if selected.selected != "20170102_EXP_56" || st.selected != "" {
		t.Error("withSelected leaked into original")
	}
}

func TestFieldsExclude(t *testing.T) {
	s := testServer(t)
	st, err := s.parseState(httptest.NewRequest("GET", "/"+query("filter", "Viscosity:1:2", "selected", "20170102_EXP_56"), nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fields := st.fields("x", "y", "z", "color")
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %+v", fields)
	}
	if fields[0].Name != "filter" || fields[0].Value != "Viscosity:1:2" || fields[1].Name != "selected" {
		t.Errorf("unexpected fields %+v", fields)
	}
}

func TestParseFloats(t *testing.T) {
	got, err := parseFloats("1, 2.5,,3")
	if err != nil || len(got) != 3 || got[1] != 2.5 {
		t.Errorf("got %v, %v", got, err)
	}
	if _, err := parseFloats("1,a"); !errors.Is(err, errBadRequest) {
		t.Errorf("expected errBadRequest, got %v", err)
	}
}
