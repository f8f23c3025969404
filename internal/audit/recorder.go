// Package audit writes one disposition record per simulated shipment, in
// the F280 layout used by inspection reporting.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/pathways-sim/pathways/internal/constants"
	"github.com/pathways-sim/pathways/internal/pathutil"
)

// Entry describes what happened to one shipment.
type Entry struct {
	Run       int       `json:"run"`
	Seq       int       `json:"seq"`
	Date      time.Time `json:"date"`
	Port      string    `json:"port"`
	Origin    string    `json:"origin"`
	Commodity string    `json:"commodity"`
	NumBoxes  int       `json:"num_boxes"`

	// Inspected is false when a release program waived inspection.
	Inspected     bool   `json:"inspected"`
	Passed        bool   `json:"passed"`
	BoxesExamined int    `json:"boxes_examined"`
	Program       string `json:"program,omitempty"`

	// Disposition is filled in by the recorder.
	Disposition string `json:"disposition"`
}

// Recorder persists entries. Implementations are safe for concurrent use so
// one recorder can serve every run of an aggregate.
type Recorder interface {
	Record(e Entry) error
	Close() error
}

// F280Columns is the header of the CSV output.
var F280Columns = []string{"REPORT_DT", "LOCATION", "ORIGIN_NM", "COMMODITY", "disposition"}

// Dispositions maps disposition keys to the labels written to records.
type Dispositions map[string]string

// NewDispositions returns the default labels with overrides applied.
func NewDispositions(overrides map[string]string) Dispositions {
	d := make(Dispositions, len(constants.DefaultDispositions))
	for k, v := range constants.DefaultDispositions {
		d[k] = v
	}
	for k, v := range overrides {
		d[k] = v
	}
	return d
}

// For returns the label for e.
func (d Dispositions) For(e Entry) string {
	if e.Program != "" {
		switch {
		case !e.Inspected:
			return d[constants.DispositionCFRPNotInspected]
		case e.Passed:
			return d[constants.DispositionCFRPInspectedOK]
		default:
			return d[constants.DispositionCFRPInspectedPest]
		}
	}
	if e.Passed {
		return d[constants.DispositionInspectedOK]
	}
	return d[constants.DispositionInspectedPest]
}

// Open returns the recorder for target:
//   - "" records nothing
//   - "-", "stdout" or "print" writes one line per shipment to stdout
//   - a path ending in .jsonl writes JSON lines
//   - any other path writes F280 CSV
//
// Files are truncated on open.
func Open(target string, codes map[string]string, stdout io.Writer) (Recorder, error) {
	disp := NewDispositions(codes)
	switch {
	case target == "":
		return Nop{}, nil
	case target == "-" || target == "stdout" || target == "print":
		return &lineRecorder{w: stdout, disp: disp}, nil
	}

	if err := pathutil.EnsureParentDir(target); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening audit output %s: %w", pathutil.RedactPath(target), err)
	}

	if strings.HasSuffix(strings.ToLower(target), ".jsonl") {
		return &jsonlRecorder{file: f, disp: disp}, nil
	}

	r := &csvRecorder{file: f, w: bufio.NewWriter(f), disp: disp}
	if err := r.writeRow(F280Columns); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing F280 header: %w", err)
	}
	return r, nil
}

// Nop discards entries.
type Nop struct{}

func (Nop) Record(Entry) error { return nil }
func (Nop) Close() error       { return nil }

// lineRecorder prints a human-readable line per entry.
type lineRecorder struct {
	mu   sync.Mutex
	w    io.Writer
	disp Dispositions
}

func (r *lineRecorder) Record(e Entry) error {
	e.Disposition = r.disp.For(e)
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err := fmt.Fprintf(r.w, "F280: %s | %s | %s | %s | %s\n",
		e.Date.Format(constants.DateLayout), e.Port, e.Origin, e.Commodity, e.Disposition)
	return err
}

func (r *lineRecorder) Close() error { return nil }

// jsonlRecorder holds a mutex-protected file handle for writing entries.
type jsonlRecorder struct {
	mu   sync.Mutex
	file *os.File
	disp Dispositions
}

func (r *jsonlRecorder) Record(e Entry) error {
	e.Disposition = r.disp.For(e)
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encoding audit entry: %w", err)
	}
	data = append(data, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return fmt.Errorf("audit recorder closed")
	}
	_, err = r.file.Write(data)
	return err
}

func (r *jsonlRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// csvRecorder writes F280 rows with every text field quoted.
type csvRecorder struct {
	mu   sync.Mutex
	file *os.File
	w    *bufio.Writer
	disp Dispositions
}

func (r *csvRecorder) Record(e Entry) error {
	row := []string{
		e.Date.Format(constants.DateLayout),
		e.Port,
		e.Origin,
		e.Commodity,
		r.disp.For(e),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return fmt.Errorf("audit recorder closed")
	}
	return r.writeRow(row)
}

func (r *csvRecorder) writeRow(fields []string) error {
	for i, f := range fields {
		if i > 0 {
			if err := r.w.WriteByte(','); err != nil {
				return err
			}
		}
		if _, err := r.w.WriteString(`"` + strings.ReplaceAll(f, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := r.w.WriteString("\r\n")
	return err
}

func (r *csvRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	flushErr := r.w.Flush()
	closeErr := r.file.Close()
	r.file = nil
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// MemoryRecorder keeps entries in memory.
type MemoryRecorder struct {
	mu      sync.Mutex
	disp    Dispositions
	entries []Entry
	closed  bool
}

// NewMemoryRecorder returns an in-memory recorder using the given overrides.
func NewMemoryRecorder(codes map[string]string) *MemoryRecorder {
	return &MemoryRecorder{disp: NewDispositions(codes)}
}

func (m *MemoryRecorder) Record(e Entry) error {
	e.Disposition = m.disp.For(e)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

func (m *MemoryRecorder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Entries returns a copy of the recorded entries.
func (m *MemoryRecorder) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Closed reports whether Close was called.
func (m *MemoryRecorder) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
