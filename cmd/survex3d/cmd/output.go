package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/ssargent/survex3d/pkg/img3d"
	"github.com/ssargent/survex3d/pkg/survey"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatRecord renders one record as a single line of text
func formatRecord(rec img3d.Record) string {
	switch r := rec.(type) {
	case img3d.StyleChange:
		return fmt.Sprintf("STYLE %s", r.Style)
	case img3d.Move:
		return fmt.Sprintf("MOVE %s", formatPoint(r.Point))
	case img3d.DateMark:
		switch {
		case r.Range != nil:
			return fmt.Sprintf("DATE %s..%s", r.Range.From, r.Range.To)
		case r.Primary != nil:
			return fmt.Sprintf("DATE %s", r.Primary)
		}
		return "DATE none"
	case img3d.ErrorClosure:
		return fmt.Sprintf("ERROR legs=%d length=%.2f e=%.2f h=%.2f v=%.2f", r.Legs, r.Length, r.E, r.H, r.V)
	case img3d.CrossSection:
		s := fmt.Sprintf("XSECT %s %s %s %s %s", r.Label,
			formatLRUD(r.Left), formatLRUD(r.Right), formatLRUD(r.Up), formatLRUD(r.Down))
		if r.LastInPassage {
			s += " last"
		}
		return s
	case img3d.Line:
		label := "-"
		if r.Label != nil {
			label = *r.Label
		}
		return withFlags(fmt.Sprintf("LINE %s %s", label, formatPoint(r.Point)), r.Flags.String())
	case img3d.LabelPoint:
		return withFlags(fmt.Sprintf("LABEL %s %s", r.Label, formatPoint(r.Point)), r.Flags.String())
	case img3d.Unknown:
		return fmt.Sprintf("UNKNOWN 0x%02X", r.Opcode)
	}
	return rec.Kind().String()
}

func formatPoint(p img3d.Point) string {
	return fmt.Sprintf("%.2f %.2f %.2f", p.X, p.Y, p.Z)
}

func formatLRUD(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

func withFlags(s, flags string) string {
	if flags == "" {
		return s
	}
	return s + " [" + flags + "]"
}

func outputRecordsText(w io.Writer, header img3d.Header, records img3d.Records) {
	fmt.Fprintf(w, "# %s\n", header.Metadata)
	for _, rec := range records {
		fmt.Fprintln(w, formatRecord(rec))
	}
}

// outputTotalsTable displays survey totals in table format
func outputTotalsTable(w io.Writer, header img3d.Header, t survey.Totals) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Title:\t%s\n", header.Metadata)
	if t.Timestamp != nil {
		fmt.Fprintf(tw, "Created:\t%s\n", t.Timestamp.UTC().Format(time.RFC3339))
	}
	if header.ExtendedElevation() {
		fmt.Fprintf(tw, "Projection:\textended elevation\n")
	}
	fmt.Fprintf(tw, "Legs:\t%d\n", t.Legs)
	fmt.Fprintf(tw, "Total length:\t%.2f m\n", t.TotalLength)
	fmt.Fprintf(tw, "Surveyed length:\t%.2f m\n", t.SurveyedLength)
	fmt.Fprintf(tw, "Stations:\t%d\n", t.Stations)
	fmt.Fprintf(tw, "Entrances:\t%d\n", t.Entrances)
	fmt.Fprintf(tw, "Fixed points:\t%d\n", t.FixedPoints)
	fmt.Fprintf(tw, "Passages:\t%d\n", t.Passages)
	if t.FirstDate != nil {
		fmt.Fprintf(tw, "Dates:\t%s .. %s\n", t.FirstDate, t.LastDate)
	}
	if t.Bounds != nil {
		fmt.Fprintf(tw, "Bounds:\t%s .. %s\n", formatPoint(t.Bounds.Min), formatPoint(t.Bounds.Max))
	}
	if t.UnknownOpcodes > 0 {
		fmt.Fprintf(tw, "Unknown opcodes:\t%d\n", t.UnknownOpcodes)
	}

	var counts []string
	for _, k := range img3d.Kinds() {
		if n := t.Records[k.String()]; n > 0 {
			counts = append(counts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	fmt.Fprintf(tw, "Records:\t%s\n", strings.Join(counts, " "))

	return tw.Flush()
}

// outputStationsTable displays stations in table format
func outputStationsTable(w io.Writer, stations []survey.Station) error {
	if len(stations) == 0 {
		fmt.Fprintln(w, "No stations found")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LABEL\tX\tY\tZ\tFLAGS")
	for _, st := range stations {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%s\n", st.Label, st.Pos.X, st.Pos.Y, st.Pos.Z, st.Flags)
	}
	return tw.Flush()
}
