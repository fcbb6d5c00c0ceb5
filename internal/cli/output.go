package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/mmcdole/youhub/internal/format"
)

// Table provides a simple table formatter
type Table struct {
	w *tabwriter.Writer
}

// NewTable creates a table writing to out
func NewTable(out io.Writer, headers ...string) *Table {
	t := &Table{w: tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)}
	if len(headers) > 0 {
		t.Row(headers...)
	}
	return t
}

// Row adds a row to the table
func (t *Table) Row(values ...string) {
	_, _ = t.w.Write([]byte(strings.Join(values, "\t") + "\n"))
}

// Flush writes the table output
func (t *Table) Flush() {
	_ = t.w.Flush()
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// cell flattens s for a table cell
func cell(s string, max int) string {
	return format.Truncate(strings.Join(strings.Fields(s), " "), max)
}
