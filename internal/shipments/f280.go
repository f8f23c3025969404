package shipments

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pathways-sim/pathways/internal/constants"
	"github.com/pathways-sim/pathways/internal/models"
	"github.com/pathways-sim/pathways/internal/pathutil"
)

// F280 column names.
const (
	ColReportDate = "REPORT_DT"
	ColLocation   = "LOCATION"
	ColOrigin     = "ORIGIN_NM"
	ColCommodity  = "COMMODITY"
	ColQuantity   = "QUANTITY"
)

// F280Record is one row of an F280 inspection report.
type F280Record struct {
	Date      time.Time
	Location  string
	Origin    string
	Commodity string
	// Quantity is the number of stems.
	Quantity int
}

// LoadF280 reads all records of an F280 CSV file.
func LoadF280(path string) ([]F280Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening F280 file %s: %w", pathutil.RedactPath(path), err)
	}
	defer f.Close()

	records, err := ParseF280(f)
	if err != nil {
		return nil, fmt.Errorf("reading F280 file %s: %w", pathutil.RedactPath(path), err)
	}
	return records, nil
}

// ParseF280 parses F280 CSV data. Columns are located by header name and
// extra columns are ignored.
func ParseF280(r io.Reader) ([]F280Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row")
		}
		return nil, err
	}

	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range []string{ColReportDate, ColLocation, ColOrigin, ColCommodity, ColQuantity} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("missing column %s", col)
		}
	}

	var records []F280Record
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		field := func(col string) string {
			i := idx[col]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		date, err := time.Parse(constants.DateLayout, field(ColReportDate))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColReportDate, err)
		}
		qty, err := parseQuantity(field(ColQuantity))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid %s: %w", line, ColQuantity, err)
		}

		records = append(records, F280Record{
			Date:      date,
			Location:  field(ColLocation),
			Origin:    field(ColOrigin),
			Commodity: field(ColCommodity),
			Quantity:  qty,
		})
	}
	return records, nil
}

// parseQuantity accepts integer or decimal stem counts, rounding up.
func parseQuantity(s string) (int, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 {
			return 0, fmt.Errorf("quantity must be positive, got %d", n)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("quantity must be positive, got %s", s)
	}
	return int(math.Ceil(f)), nil
}

// F280Source replays F280 records in file order.
type F280Source struct {
	records     []F280Record
	stemsPerBox int
	next        int
}

// NewF280Source returns a source over records. The records slice is shared
// and never modified, so one parsed file can back many runs.
func NewF280Source(records []F280Record, stemsPerBox int) (*F280Source, error) {
	if stemsPerBox < 1 {
		return nil, fmt.Errorf("F280 source: stems_per_box must be at least 1, got %d", stemsPerBox)
	}
	return &F280Source{records: records, stemsPerBox: stemsPerBox}, nil
}

// Next implements Source.
func (f *F280Source) Next() (*models.Shipment, error) {
	if f.next >= len(f.records) {
		return nil, fmt.Errorf("F280 source after %d records: %w", len(f.records), ErrExhausted)
	}
	rec := f.records[f.next]
	f.next++

	boxes := (rec.Quantity + f.stemsPerBox - 1) / f.stemsPerBox
	s, err := models.NewShipment(rec.Location, rec.Origin, rec.Commodity, rec.Date, boxes, rec.Quantity, f.stemsPerBox)
	if err != nil {
		return nil, fmt.Errorf("F280 record %d: %w", f.next, err)
	}
	s.Seq = f.next
	return s, nil
}
