package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emiliopalmerini/polymer-explorer/internal/engine"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

func newPropertiesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "properties",
		Short: "List input and output properties in dataset order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			props := eng.ListProperties()
			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, props)
			}

			fmt.Fprintf(out, "Inputs (%d):\n", len(props.Inputs))
			for _, name := range props.Inputs {
				fmt.Fprintf(out, "  %s\n", name)
			}
			fmt.Fprintf(out, "Outputs (%d):\n", len(props.Outputs))
			for _, name := range props.Outputs {
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [property...]",
		Short: "Show the min and max of each property",
		Long: `Show the observed range of each property across all experiments.

Examples:
  polyx stats
  polyx stats "Oven Temperature" Viscosity`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			schema := eng.Dataset().Schema()
			names := args
			if len(names) == 0 {
				names = schema.All()
			}
			for _, name := range names {
				if _, err := schema.Lookup(name); err != nil {
					return err
				}
			}

			stats := eng.ComputeStats()
			type row struct {
				Name string  `json:"name"`
				Kind string  `json:"kind"`
				Min  float64 `json:"min"`
				Max  float64 `json:"max"`
			}
			rows := make([]row, 0, len(names))
			for _, name := range names {
				p, _ := schema.Lookup(name)
				r := stats[name]
				rows = append(rows, row{Name: name, Kind: p.Kind.String(), Min: r.Min, Max: r.Max})
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, rows)
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "PROPERTY\tKIND\tMIN\tMAX")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Kind, util.FormatBound(r.Min), util.FormatBound(r.Max))
			}
			return tw.Flush()
		},
	}
}

// axesFlags registers --x, --y, --z and --color.
func axesFlags(cmd *cobra.Command, axes *engine.Axes) {
	cmd.Flags().StringVar(&axes.X, "x", "", "X axis property (default Polymer 1)")
	cmd.Flags().StringVar(&axes.Y, "y", "", "Y axis property (default Polymer 2)")
	cmd.Flags().StringVar(&axes.Z, "z", "", "Z axis property (default Viscosity)")
	cmd.Flags().StringVar(&axes.Color, "color", "", "Color property (default Tensile Strength)")
}

// withDefaults fills empty axes from the engine's default selection.
func withDefaults(eng *engine.Engine, axes engine.Axes) engine.Axes {
	def := eng.DefaultAxes()
	if axes.X == "" {
		axes.X = def.X
	}
	if axes.Y == "" {
		axes.Y = def.Y
	}
	if axes.Z == "" {
		axes.Z = def.Z
	}
	if axes.Color == "" {
		axes.Color = def.Color
	}
	return axes
}

func newPointsCmd(opts *rootOptions) *cobra.Command {
	var (
		axes    engine.Axes
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Project experiments onto three axes and a color property",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			pf, err := parseFilters(filters, eng.Dataset().Schema())
			if err != nil {
				return err
			}
			a := withDefaults(eng, axes)
			points, err := eng.CreateDataPoints(a, eng.ComputeStats())
			if err != nil {
				return err
			}
			if points, err = eng.FilterPoints(points, pf); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				for i := range points {
					points[i].Experiment = nil
				}
				return printJSON(out, points)
			}
			tw := newTable(out)
			fmt.Fprintf(tw, "ID\t%s\t%s\t%s\t%s\n", a.X, a.Y, a.Z, a.Color)
			for _, p := range points {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.ID,
					util.FormatValue(a.X, p.X), util.FormatValue(a.Y, p.Y),
					util.FormatValue(a.Z, p.Z), util.FormatValue(a.Color, p.Value))
			}
			return tw.Flush()
		},
	}
	axesFlags(cmd, &axes)
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as property:min:max (repeatable)")
	return cmd
}

func newFilterCmd(opts *rootOptions) *cobra.Command {
	var filters []string
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List experiments whose properties fall inside every range",
		Long: `List the IDs of experiments matching all filters. Bounds are inclusive.

Examples:
  polyx filter -f "Oven Temperature:400:425"
  polyx filter -f "Oven Temperature:400:425" -f "Viscosity:2500:4000"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			pf, err := parseFilters(filters, eng.Dataset().Schema())
			if err != nil {
				return err
			}
			ids, err := eng.FilterExperiments(pf)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, ids)
			}
			for _, id := range ids {
				fmt.Fprintln(out, id)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), util.FormatCount(len(ids), eng.Dataset().Len()))
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&filters, "filter", "f", nil, "Filter as property:min:max (repeatable)")
	return cmd
}

func newGroupsCmd(opts *rootOptions) *cobra.Command {
	var (
		boundaries string
		buckets    int
	)
	cmd := &cobra.Command{
		Use:   "groups <property>",
		Short: "Bucket experiments into [low, high) ranges of a property",
		Long: `Bucket experiments by consecutive boundary pairs. Values outside every
bucket are left out.

Examples:
  polyx groups Viscosity --boundaries 2000,2400,2800,3200
  polyx groups "Cure Time" --buckets 4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			prop := args[0]
			if _, err := eng.Dataset().Schema().Lookup(prop); err != nil {
				return err
			}

			var bounds []float64
			switch {
			case boundaries != "":
				for _, part := range strings.Split(boundaries, ",") {
					v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
					if err != nil {
						return fmt.Errorf("invalid boundary %q: %w", part, err)
					}
					bounds = append(bounds, v)
				}
			case buckets > engine.MaxBuckets:
				return fmt.Errorf("--buckets must be at most %d", engine.MaxBuckets)
			case buckets > 0:
				bounds = engine.EvenBoundaries(eng.ComputeStats()[prop], buckets)
			default:
				return fmt.Errorf("one of --boundaries or --buckets is required")
			}

			groups, err := eng.GroupByRanges(prop, bounds)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, groups)
			}
			tw := newTable(out)
			fmt.Fprintln(tw, "RANGE\tCOUNT\tEXPERIMENTS")
			for _, g := range groups.Groups {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", g.Label, len(g.IDs), strings.Join(g.IDs, " "))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&boundaries, "boundaries", "", "Comma-separated ascending boundaries")
	cmd.Flags().IntVar(&buckets, "buckets", 0, "Split the property range into this many equal buckets")
	return cmd
}

func newCorrelateCmd(opts *rootOptions) *cobra.Command {
	var matrix bool
	cmd := &cobra.Command{
		Use:   "correlate <a> <b> | --matrix [property...]",
		Short: "Pearson correlation between properties",
		Long: `Print the Pearson correlation coefficient of two properties across all
experiments. A constant property correlates 0 with everything.

Examples:
  polyx correlate "Oven Temperature" Viscosity
  polyx correlate --matrix "Polymer 1" "Polymer 2" "Tensile Strength"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !matrix {
				if len(args) != 2 {
					return fmt.Errorf("correlate needs exactly two properties, got %d", len(args))
				}
				r, err := eng.Correlation(args[0], args[1])
				if err != nil {
					return err
				}
				if opts.json {
					return printJSON(out, map[string]any{"a": args[0], "b": args[1], "r": r})
				}
				fmt.Fprintf(out, "%.4f\n", r)
				return nil
			}

			m, err := eng.CorrelationMatrix(args)
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(out, m)
			}
			tw := newTable(out)
			fmt.Fprint(tw, "\t"+strings.Join(m.Properties, "\t")+"\n")
			for i, name := range m.Properties {
				fmt.Fprint(tw, name)
				for _, v := range m.Values[i] {
					fmt.Fprintf(tw, "\t%.2f", v)
				}
				fmt.Fprintln(tw)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&matrix, "matrix", false, "Print the pairwise matrix of the given properties (all when none given)")
	return cmd
}

func newShowCmd(opts *rootOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "show <experiment-id>",
		Short: "Show one experiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := opts.app.Engine(cmd.Context())
			if err != nil {
				return err
			}
			exp, ok := eng.GetExperiment(args[0])
			if !ok {
				return fmt.Errorf("experiment %q not found", args[0])
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return printJSON(out, engine.Summarize(exp))
			}

			fmt.Fprintf(out, "Experiment %s (%s)\n\n", util.DisplayID(exp.ID), exp.ID)
			if all {
				printValues(out, "Inputs", exp.Inputs())
			} else {
				shown, hidden := exp.KeyInputs(6)
				printValues(out, "Key inputs", shown)
				if hidden > 0 {
					fmt.Fprintf(out, "  +%d more inputs\n", hidden)
				}
			}
			fmt.Fprintln(out)
			printValues(out, "Outputs", exp.Outputs())
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Show every input, including zero amounts")
	return cmd
}
