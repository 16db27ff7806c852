package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// TableFormatter formats data as an aligned table.
type TableFormatter struct {
	NoHeaders bool
}

// Format formats data as a table.
// Supports: Table, *Table and Reply. Anything else falls back to JSON.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch d := data.(type) {
	case nil:
		return nil
	case *Table:
		return d.RenderWithOptions(w, f.NoHeaders)
	case Table:
		return d.RenderWithOptions(w, f.NoHeaders)
	case Reply:
		return replyTable(d).RenderWithOptions(w, f.NoHeaders)
	default:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	}
}

// replyTable lays out a scalar reply as one row and an array reply as one
// row per element.
func replyTable(r Reply) *Table {
	if r.Type != TypeArray {
		t := &Table{Headers: []string{"TYPE", "VALUE"}}
		t.AddRow(r.Type, formatScalar(r))
		return t
	}

	t := &Table{Headers: []string{"#", "TYPE", "VALUE"}}
	elems, _ := r.Value.([]Reply)
	for i, e := range elems {
		t.AddRow(strconv.Itoa(i+1), e.Type, formatScalar(e))
	}
	return t
}

func formatScalar(r Reply) string {
	switch r.Type {
	case TypeNil:
		return "(nil)"
	case TypeBulk:
		return strconv.Quote(r.Value.(string))
	case TypeArray:
		elems, _ := r.Value.([]Reply)
		return fmt.Sprintf("[%d items]", len(elems))
	default:
		return fmt.Sprintf("%v", r.Value)
	}
}

// Table represents tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Render renders the table to the writer.
func (t *Table) Render(w io.Writer) error {
	return t.RenderWithOptions(w, false)
}

// RenderWithOptions renders the table with options.
func (t *Table) RenderWithOptions(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if !noHeaders && len(t.Headers) > 0 {
		writeRow(tw, t.Headers)
	}
	for _, row := range t.Rows {
		writeRow(tw, row)
	}

	return tw.Flush()
}

func writeRow(w io.Writer, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			io.WriteString(w, "\t")
		}
		io.WriteString(w, cell)
	}
	io.WriteString(w, "\n")
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// SetHeaders sets the table headers.
func (t *Table) SetHeaders(headers ...string) {
	t.Headers = headers
}
