package web

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/plot"
	"github.com/emiliopalmerini/polymer-explorer/internal/web/templates"
)

var errBadRequest = errors.New("bad request")

// viewState is the explorer state carried in the query string.
type viewState struct {
	axes     engine.Axes
	filters  *domain.FilterSet
	selected string
	camera   plot.Camera
}

func (s *Server) parseState(r *http.Request) (viewState, error) {
	q := r.URL.Query()

	axes, err := s.parseAxes(q)
	if err != nil {
		return viewState{}, err
	}

	filters, err := s.parseFilters(q)
	if err != nil {
		return viewState{}, err
	}
	fs := domain.NewFilterSet(filters...)

	if prop := q.Get("fprop"); prop != "" {
		f, err := domain.ParseFilter(prop + ":" + q.Get("fmin") + ":" + q.Get("fmax"))
		if err != nil {
			return viewState{}, err
		}
		if err := s.checkProperty(f.Property); err != nil {
			return viewState{}, err
		}
		fs.Set(f)
	}

	cam, err := parseCamera(q)
	if err != nil {
		return viewState{}, err
	}

	st := viewState{axes: axes, filters: fs, camera: cam}
	if id := q.Get("selected"); id != "" {
		if _, ok := s.engine.Dataset().Get(id); ok {
			st.selected = id
		}
	}
	return st, nil
}

func (s *Server) parseAxes(q url.Values) (engine.Axes, error) {
	axes := s.engine.DefaultAxes()
	for _, a := range []struct {
		key string
		dst *string
	}{{"x", &axes.X}, {"y", &axes.Y}, {"z", &axes.Z}, {"color", &axes.Color}} {
		v := q.Get(a.key)
		if v == "" {
			continue
		}
		if err := s.checkProperty(v); err != nil {
			return engine.Axes{}, err
		}
		*a.dst = v
	}
	return axes, nil
}

// parseFilters reads every "filter=property:min:max" value in order.
func (s *Server) parseFilters(q url.Values) ([]domain.PropertyFilter, error) {
	var filters []domain.PropertyFilter
	for _, raw := range q["filter"] {
		f, err := domain.ParseFilter(raw)
		if err != nil {
			return nil, err
		}
		if err := s.checkProperty(f.Property); err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func (s *Server) checkProperty(name string) error {
	_, err := s.engine.Dataset().Schema().Lookup(name)
	return err
}

func parseCamera(q url.Values) (plot.Camera, error) {
	cam := plot.DefaultCamera
	for _, c := range []struct {
		key string
		dst *float64
	}{{"yaw", &cam.Yaw}, {"pitch", &cam.Pitch}, {"dist", &cam.Distance}} {
		v := q.Get(c.key)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return plot.Camera{}, fmt.Errorf("%w: %s=%q is not a number", errBadRequest, c.key, v)
		}
		*c.dst = f
	}
	return cam.Clamp(), nil
}

func parseFloats(raw string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		f, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errBadRequest, part)
		}
		out = append(out, f)
	}
	return out, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (st viewState) clone() viewState {
	st.filters = domain.NewFilterSet(st.filters.List()...)
	return st
}

func (st viewState) withSelected(id string) viewState {
	st = st.clone()
	st.selected = id
	return st
}

func (st viewState) withCamera(c plot.Camera) viewState {
	st = st.clone()
	st.camera = c.Clamp()
	return st
}

func (st viewState) withoutFilter(property string) viewState {
	st = st.clone()
	st.filters.Remove(property)
	return st
}

func (st viewState) withoutFilters() viewState {
	st = st.clone()
	st.filters.Clear()
	return st
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (st viewState) values() url.Values {
	v := url.Values{}
	v.Set("x", st.axes.X)
	v.Set("y", st.axes.Y)
	v.Set("z", st.axes.Z)
	v.Set("color", st.axes.Color)
	for _, f := range st.filters.List() {
		v.Add("filter", f.String())
	}
	if st.selected != "" {
		v.Set("selected", st.selected)
	}
	if st.camera != plot.DefaultCamera {
		v.Set("yaw", formatFloat(st.camera.Yaw))
		v.Set("pitch", formatFloat(st.camera.Pitch))
		v.Set("dist", formatFloat(st.camera.Distance))
	}
	return v
}

func (st viewState) url(path string) string {
	return path + "?" + st.values().Encode()
}

// fields flattens the state into form fields, leaving out the excluded keys.
func (st viewState) fields(exclude ...string) []templates.HiddenField {
	v := st.values()
	for _, k := range exclude {
		v.Del(k)
	}
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []templates.HiddenField
	for _, k := range keys {
		for _, val := range v[k] {
			out = append(out, templates.HiddenField{Name: k, Value: val})
		}
	}
	return out
}
