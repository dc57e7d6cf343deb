package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/plot"
	sharedmw "github.com/emiliopalmerini/polymer-explorer/internal/shared/middleware"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
	"github.com/emiliopalmerini/polymer-explorer/internal/web/templates"
)

const (
	keyInputLimit = 6
	rotateStep    = 15.0
	distanceStep  = 0.5
)

// visiblePoints returns every data point for st's axes and the subset that
// passes st's filters.
func (s *Server) visiblePoints(st viewState) (all, visible []domain.DataPoint, err error) {
	all, err = s.engine.CreateDataPoints(st.axes, s.engine.ComputeStats())
	if err != nil {
		return nil, nil, err
	}
	visible, err = s.engine.FilterPoints(all, st.filters.List())
	if err != nil {
		return nil, nil, err
	}
	return all, visible, nil
}

func (s *Server) handleExplorer(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	// The add-filter form posts its fields back; fold them into a clean URL.
	if r.URL.Query().Get("fprop") != "" {
		http.Redirect(w, r, st.url("/"), http.StatusSeeOther)
		return
	}

	page, err := s.buildExplorerPage(st)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if sharedmw.IsHTMX(r) {
		s.render(w, r, http.StatusOK, templates.PlotPanel(page))
		return
	}
	s.render(w, r, http.StatusOK, templates.Layout(page.Title, templates.Explorer(page)))
}

func (s *Server) buildExplorerPage(st viewState) (templates.ExplorerPage, error) {
	all, visible, err := s.visiblePoints(st)
	if err != nil {
		return templates.ExplorerPage{}, err
	}
	props := s.engine.ListProperties()
	colors := plot.NewColorScale(visible)

	page := templates.ExplorerPage{
		Title:     s.cfg.Title,
		Total:     len(all),
		Visible:   len(visible),
		X:         st.axes.X,
		Y:         st.axes.Y,
		Z:         st.axes.Z,
		Color:     st.axes.Color,
		Inputs:    props.Inputs,
		Outputs:   props.Outputs,
		Hidden:    st.fields("x", "y", "z", "color"),
		FilterTo:  st.fields(),
		ClearURL:  st.withoutFilters().url("/"),
		PlotURL:   st.url("/plot.svg"),
		ExportURL: "/api/dataset?download=1",
	}
	if st.filters.Len() > 0 {
		page.CountLabel = util.FormatCount(len(visible), len(all))
	}

	for _, f := range st.filters.List() {
		page.Filters = append(page.Filters, templates.FilterBadge{
			Label:     f.Label(),
			RemoveURL: st.withoutFilter(f.Property).url("/"),
		})
	}

	page.Camera = cameraLinks(st)

	for _, p := range visible {
		next := p.ID
		if p.ID == st.selected {
			next = ""
		}
		page.Points = append(page.Points, templates.PointLink{
			ID:        p.ID,
			DisplayID: util.DisplayID(p.ID),
			ColorText: util.FormatValue(st.axes.Color, p.Value),
			Swatch:    plot.Hex(colors.Color(p.Value)),
			URL:       st.withSelected(next).url("/"),
			Selected:  p.ID == st.selected,
		})
	}

	if st.selected != "" {
		if exp, ok := s.engine.GetExperiment(st.selected); ok {
			card := experimentCard(exp)
			card.CloseURL = st.withSelected("").url("/")
			page.Selected = &card
		}
	}

	for _, e := range s.statEntries() {
		page.Stats = append(page.Stats, templates.StatRow{
			Name: e.Name,
			Kind: e.Kind,
			Min:  util.FormatValue(e.Name, e.Min),
			Max:  util.FormatValue(e.Name, e.Max),
		})
	}
	return page, nil
}

func experimentCard(exp *domain.Experiment) templates.ExperimentCard {
	shown, hidden := exp.KeyInputs(keyInputLimit)
	card := templates.ExperimentCard{
		ID:         exp.ID,
		DisplayID:  util.DisplayID(exp.ID),
		MoreInputs: hidden,
	}
	for _, nv := range shown {
		card.KeyInputs = append(card.KeyInputs, templates.ValueText{Name: nv.Name, Text: util.FormatValue(nv.Name, nv.Value)})
	}
	for _, fv := range engine.Summarize(exp).Outputs {
		card.Outputs = append(card.Outputs, templates.ValueText{Name: fv.Name, Text: fv.Text})
	}
	return card
}

func cameraLinks(st viewState) []templates.NavLink {
	c := st.camera
	link := func(label, title string, next plot.Camera) templates.NavLink {
		return templates.NavLink{Label: label, Title: title, URL: st.withCamera(next).url("/")}
	}
	return []templates.NavLink{
		link("←", "Rotate left", plot.Camera{Yaw: c.Yaw - rotateStep, Pitch: c.Pitch, Distance: c.Distance}),
		link("→", "Rotate right", plot.Camera{Yaw: c.Yaw + rotateStep, Pitch: c.Pitch, Distance: c.Distance}),
		link("↑", "Tilt up", plot.Camera{Yaw: c.Yaw, Pitch: c.Pitch + rotateStep, Distance: c.Distance}),
		link("↓", "Tilt down", plot.Camera{Yaw: c.Yaw, Pitch: c.Pitch - rotateStep, Distance: c.Distance}),
		link("+", "Zoom in", plot.Camera{Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance - distanceStep}),
		link("−", "Zoom out", plot.Camera{Yaw: c.Yaw, Pitch: c.Pitch, Distance: c.Distance + distanceStep}),
		link("⟲", "Reset view", plot.DefaultCamera),
	}
}

// canvasSize reads w and h from the query, bounded to sane values.
func canvasSize(r *http.Request, defW, defH int) (int, int, error) {
	size := func(key string, def int) (int, error) {
		v := r.URL.Query().Get(key)
		if v == "" {
			return def, nil
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 100 || n > 4000 {
			return 0, fmt.Errorf("%w: %s must be an integer between 100 and 4000", errBadRequest, key)
		}
		return n, nil
	}
	w, err := size("w", defW)
	if err != nil {
		return 0, 0, err
	}
	h, err := size("h", defH)
	return w, h, err
}

func (s *Server) writeSVG(w http.ResponseWriter, buf *bytes.Buffer) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePlotSVG(w http.ResponseWriter, r *http.Request) {
	st, err := s.parseState(r)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	width, height, err := canvasSize(r, 800, 600)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	_, visible, err := s.visiblePoints(st)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var buf bytes.Buffer
	err = plot.Render3D(&buf, plot.Scene{
		Axes:     st.axes,
		Stats:    s.engine.ComputeStats(),
		Points:   visible,
		Camera:   st.camera,
		Selected: st.selected,
		Width:    width,
		Height:   height,
	})
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeSVG(w, &buf)
}

func (s *Server) handleScatterSVG(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	axes, err := s.parseAxes(q)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	axes.Z = axes.Y
	filters, err := s.parseFilters(q)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	width, height, err := canvasSize(r, 640, 480)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	points, err := s.engine.CreateDataPoints(axes, nil)
	if err == nil {
		points, err = s.engine.FilterPoints(points, filters)
	}
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if len(points) == 0 {
		http.Error(w, "no experiments match the filters", http.StatusNotFound)
		return
	}

	var buf bytes.Buffer
	if err := plot.RenderScatter(&buf, plot.Scatter{X: axes.X, Y: axes.Y, Color: axes.Color, Points: points}, width, height); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	s.writeSVG(w, &buf)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, templates.Layout("Not found", templates.NotFound(r.URL.Path+" does not exist")))
}
