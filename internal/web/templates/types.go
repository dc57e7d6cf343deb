package templates

// ExplorerPage is the view model for the dataset explorer.
type ExplorerPage struct {
	Title      string
	Total      int
	Visible    int
	CountLabel string // empty when no filter is active

	X, Y, Z, Color string
	Inputs         []string
	Outputs        []string

	Filters   []FilterBadge
	Hidden    []HiddenField // state carried by the axis form
	FilterTo  []HiddenField // state carried by the add-filter form
	ClearURL  string
	PlotURL   string
	Camera    []NavLink
	Points    []PointLink
	Selected  *ExperimentCard
	Stats     []StatRow
	ExportURL string
}

type FilterBadge struct {
	Label     string
	RemoveURL string
}

type HiddenField struct {
	Name  string
	Value string
}

type NavLink struct {
	Label string
	Title string
	URL   string
}

type PointLink struct {
	ID        string
	DisplayID string
	ColorText string
	Swatch    string
	URL       string
	Selected  bool
}

// ExperimentCard shows the largest inputs and every output of one experiment.
type ExperimentCard struct {
	ID         string
	DisplayID  string
	KeyInputs  []ValueText
	MoreInputs int
	Outputs    []ValueText
	CloseURL   string
}

type ValueText struct {
	Name string
	Text string
}

type StatRow struct {
	Name string
	Kind string
	Min  string
	Max  string
}
