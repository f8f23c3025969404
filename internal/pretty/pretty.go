// Package pretty renders shipments, per-shipment outcomes and aggregate
// results for the console.
package pretty

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pathways-sim/pathways/internal/models"
)

// ErrUnknownMode is returned by ParseMode for unsupported preview modes.
var ErrUnknownMode = errors.New("unknown preview mode")

// Mode selects how shipments are previewed before inspection.
type Mode string

const (
	None      Mode = "none"
	Boxes     Mode = "boxes"
	BoxesOnly Mode = "boxes_only"
	Stems     Mode = "stems"
)

// ParseMode validates a preview mode name. The empty string means None.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case "":
		return None, nil
	case None, Boxes, BoxesOnly, Stems:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q (want none, boxes, boxes_only or stems)", ErrUnknownMode, s)
}

const (
	infestedGlyph = "█"
	cleanGlyph    = "▒"
)

var (
	colorPest  = lipgloss.Color("#E74C3C")
	colorClean = lipgloss.Color("#2C4A54")
	colorTitle = lipgloss.Color("#20B9B4")

	styles = struct {
		Infested lipgloss.Style
		Clean    lipgloss.Style
		Title    lipgloss.Style
		Label    lipgloss.Style
		Box      lipgloss.Style
	}{
		Infested: lipgloss.NewStyle().Foreground(colorPest),
		Clean:    lipgloss.NewStyle().Foreground(colorClean),
		Title:    lipgloss.NewStyle().Bold(true).Foreground(colorTitle),
		Label:    lipgloss.NewStyle().Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorTitle).
			Padding(0, 1),
	}
)

func unit(infested bool) string {
	if infested {
		return styles.Infested.Render(infestedGlyph)
	}
	return styles.Clean.Render(cleanGlyph)
}

// Preview writes s in mode m. None writes nothing.
func Preview(w io.Writer, m Mode, s *models.Shipment) {
	switch m {
	case Boxes:
		fmt.Fprintf(w, "%s %s from %s at %s, %s\n",
			styles.Title.Render(fmt.Sprintf("Shipment %d:", s.Seq)),
			s.Commodity, s.Origin, s.Port, s.ArrivalTime.Format("2006-01-02"))
		fmt.Fprintln(w, renderBoxes(s))
	case BoxesOnly:
		fmt.Fprintln(w, renderBoxes(s))
	case Stems:
		var b strings.Builder
		for i := 0; i < s.NumBoxes; i++ {
			if i > 0 {
				b.WriteString(" ")
			}
			for _, stem := range s.BoxStems(i) {
				b.WriteString(unit(stem))
			}
		}
		fmt.Fprintln(w, b.String())
	}
}

func renderBoxes(s *models.Shipment) string {
	var b strings.Builder
	for i := 0; i < s.NumBoxes; i++ {
		b.WriteString(unit(s.Box(i)))
	}
	return b.String()
}

// PrintReporter describes every classified shipment on w.
type PrintReporter struct {
	w io.Writer
}

// NewPrintReporter returns a reporter writing to w.
func NewPrintReporter(w io.Writer) *PrintReporter {
	return &PrintReporter{w: w}
}

func (r *PrintReporter) TruePass() {
	fmt.Fprintln(r.w, "Inspection worked, didn't miss anything (no pest) [TP]")
}

func (r *PrintReporter) Caught() {
	fmt.Fprintln(r.w, "Inspection worked, found pest [TN]")
}

func (r *PrintReporter) Missed(s *models.Shipment) {
	fmt.Fprintf(r.w, "Inspection failed, missed %d boxes with pest [FP]\n", s.CountInfestedBoxes())
}

// PrintMissing writes the end-of-run missed rate.
func PrintMissing(w io.Writer, missedRate float64) {
	fmt.Fprintf(w, "Missing %.0f%% of shipments with pest.\n", missedRate)
}

// RenderResults writes the aggregate result as a bordered table.
func RenderResults(w io.Writer, r models.AggregateResult) {
	rows := [][2]string{
		{"Avg. % of missed shipments with pest (slippage):", fmt.Sprintf("%.2f%%", r.MissedRate)},
		{"Avg. num. of inspected shipments:", fmt.Sprintf("%.2f", r.NumInspections)},
		{"Avg. num. of boxes in inspected shipments:", fmt.Sprintf("%.2f", r.NumBoxes)},
		{"Avg. num. of boxes opened:", fmt.Sprintf("%.2f", r.NumBoxesInspected)},
	}
	if r.NumBoxes > 0 {
		rows = append(rows, [2]string{
			"Avg. % of boxes opened:",
			fmt.Sprintf("%.2f%%", 100*r.NumBoxesInspected/r.NumBoxes),
		})
	}

	width := 0
	for _, row := range rows {
		width = max(width, lipgloss.Width(row[0]))
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render(fmt.Sprintf("%d simulation(s) of %d shipments", r.NumSimulations, r.NumShipments)))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(styles.Label.Width(width).Render(row[0]))
		b.WriteString(" ")
		b.WriteString(row[1])
	}

	fmt.Fprintln(w, styles.Box.Render(b.String()))
}
