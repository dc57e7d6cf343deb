package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/emiliopalmerini/polymer-explorer/internal/domain"
	"github.com/emiliopalmerini/polymer-explorer/internal/util"
)

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// parseFilters parses repeated --filter property:min:max flags and checks the
// property names against schema.
func parseFilters(raw []string, schema *domain.Schema) ([]domain.PropertyFilter, error) {
	filters := make([]domain.PropertyFilter, 0, len(raw))
	for _, r := range raw {
		f, err := domain.ParseFilter(r)
		if err != nil {
			return nil, err
		}
		if _, err := schema.Lookup(f.Property); err != nil {
			return nil, err
		}
		filters = append(filters, f)
	}
	return filters, nil
}

func printValues(w io.Writer, title string, values []domain.NamedValue) {
	fmt.Fprintf(w, "%s:\n", title)
	tw := newTable(w)
	for _, nv := range values {
		fmt.Fprintf(tw, "  %s\t%s\n", nv.Name, util.FormatValue(nv.Name, nv.Value))
	}
	_ = tw.Flush()
}
