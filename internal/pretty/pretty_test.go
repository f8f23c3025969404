package pretty

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pathways-sim/pathways/internal/models"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input   string
		want    Mode
		wantErr bool
	}{
		{"", None, false},
		{"none", None, false},
		{"boxes", Boxes, false},
		{"boxes_only", BoxesOnly, false},
		{"stems", Stems, false},
		{"fancy", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMode) {
					t.Errorf("ParseMode(%q) error = %v, want ErrUnknownMode", tt.input, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseMode(%q) = %q, %v, want %q", tt.input, got, err, tt.want)
			}
		})
	}
}

func previewShipment(t *testing.T) *models.Shipment {
	t.Helper()
	s, err := models.NewShipment("NY JFK CBP", "Colombia", "Rosa", time.Date(2020, 4, 2, 0, 0, 0, 0, time.UTC), 3, 6, 2)
	if err != nil {
		t.Fatal(err)
	}
	// Only stem 3 (box 1) is infested.
	if err := s.ApplyStemInfestation([]bool{false, false, false, true, false, false}); err != nil {
		t.Fatal(err)
	}
	s.Seq = 4
	return s
}

func TestPreview(t *testing.T) {
	tests := []struct {
		mode         Mode
		wantInfested int
		wantClean    int
		wantHeader   bool
	}{
		{None, 0, 0, false},
		{Boxes, 1, 2, true},
		{BoxesOnly, 1, 2, false},
		{Stems, 1, 5, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			var buf bytes.Buffer
			Preview(&buf, tt.mode, previewShipment(t))
			out := buf.String()

			if got := strings.Count(out, infestedGlyph); got != tt.wantInfested {
				t.Errorf("infested glyphs = %d, want %d (%q)", got, tt.wantInfested, out)
			}
			if got := strings.Count(out, cleanGlyph); got != tt.wantClean {
				t.Errorf("clean glyphs = %d, want %d (%q)", got, tt.wantClean, out)
			}
			if hasHeader := strings.Contains(out, "Shipment 4:"); hasHeader != tt.wantHeader {
				t.Errorf("header present = %v, want %v", hasHeader, tt.wantHeader)
			}
		})
	}
}

func TestPrintReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewPrintReporter(&buf)

	r.TruePass()
	r.Caught()
	r.Missed(previewShipment(t))

	want := "Inspection worked, didn't miss anything (no pest) [TP]\n" +
		"Inspection worked, found pest [TN]\n" +
		"Inspection failed, missed 1 boxes with pest [FP]\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestPrintMissing(t *testing.T) {
	var buf bytes.Buffer
	PrintMissing(&buf, 33.4)
	if got := buf.String(); got != "Missing 33% of shipments with pest.\n" {
		t.Errorf("PrintMissing() = %q", got)
	}
}

func TestRenderResults(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, models.AggregateResult{
		MissedRate:        12.5,
		NumInspections:    80,
		NumBoxesInspected: 40,
		NumBoxes:          400,
		NumSimulations:    3,
		NumShipments:      100,
	})
	out := buf.String()

	for _, want := range []string{
		"slippage",
		"12.50%",
		"80.00",
		"10.00%",
		"3 simulation(s) of 100 shipments",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderResults_NoBoxes(t *testing.T) {
	var buf bytes.Buffer
	RenderResults(&buf, models.AggregateResult{NumSimulations: 1, NumShipments: 5})
	if strings.Contains(buf.String(), "boxes opened:") && strings.Contains(buf.String(), "NaN") {
		t.Errorf("rendered NaN for empty boxes:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "slippage") {
		t.Errorf("output missing slippage line:\n%s", buf.String())
	}
}
