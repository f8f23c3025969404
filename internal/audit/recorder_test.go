package audit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

func entry(seq int, program string, inspected, passed bool) Entry {
	return Entry{
		Seq:           seq,
		Date:          time.Date(2020, 4, 1+seq, 0, 0, 0, 0, time.UTC),
		Port:          "NY JFK CBP",
		Origin:        "Colombia",
		Commodity:     "Rosa",
		NumBoxes:      4,
		Inspected:     inspected,
		Passed:        passed,
		BoxesExamined: 2,
		Program:       program,
	}
}

func TestDispositions_For(t *testing.T) {
	d := NewDispositions(nil)
	tests := []struct {
		name string
		e    Entry
		want string
	}{
		{"inspected ok", entry(1, "", true, true), "OK Inspected"},
		{"inspected pest", entry(1, "", true, false), "Pest Found"},
		{"cfrp inspected ok", entry(1, "naive_cfrp", true, true), "OK CFRP Inspected"},
		{"cfrp inspected pest", entry(1, "naive_cfrp", true, false), "Pest Found CFRP Inspected"},
		{"cfrp released", entry(1, "naive_cfrp", false, true), "CFRP Not Inspected"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := d.For(tt.e); got != tt.want {
				t.Errorf("For() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispositions_Overrides(t *testing.T) {
	d := NewDispositions(map[string]string{"cfrp_not_inspected": "RELEASED"})
	if got := d.For(entry(1, "naive_cfrp", false, true)); got != "RELEASED" {
		t.Errorf("For() = %q, want RELEASED", got)
	}
	// Keys not overridden keep defaults.
	if got := d.For(entry(1, "", true, false)); got != "Pest Found" {
		t.Errorf("For() = %q, want Pest Found", got)
	}
}

func TestOpen_Empty(t *testing.T) {
	r, err := Open("", nil, nil)
	if err != nil {
		t.Fatalf("Open(\"\") error = %v", err)
	}
	if _, ok := r.(Nop); !ok {
		t.Errorf("Open(\"\") = %T, want Nop", r)
	}
	if err := r.Record(entry(1, "", true, true)); err != nil {
		t.Errorf("Nop.Record() error = %v", err)
	}
}

func TestOpen_Stdout(t *testing.T) {
	for _, target := range []string{"-", "stdout", "print"} {
		t.Run(target, func(t *testing.T) {
			var buf bytes.Buffer
			r, err := Open(target, nil, &buf)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if err := r.Record(entry(1, "", true, false)); err != nil {
				t.Fatalf("Record() error = %v", err)
			}
			r.Close()

			want := "F280: 2020-04-02 | NY JFK CBP | Colombia | Rosa | Pest Found\n"
			if buf.String() != want {
				t.Errorf("output = %q, want %q", buf.String(), want)
			}
		})
	}
}

func TestOpen_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "f280.csv")
	r, err := Open(path, nil, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	e := entry(1, "naive_cfrp", false, true)
	e.Port = `Port "A"`
	if err := r.Record(e); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	want := `"REPORT_DT","LOCATION","ORIGIN_NM","COMMODITY","disposition"` + "\r\n" +
		`"2020-04-02","Port ""A""","Colombia","Rosa","CFRP Not Inspected"` + "\r\n"
	if string(data) != want {
		t.Errorf("csv = %q, want %q", string(data), want)
	}

	if err := r.Record(e); err == nil {
		t.Error("Record() after Close should fail")
	}
}

func TestOpen_JSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.jsonl")
	r, err := Open(path, nil, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	r.Record(entry(1, "", true, true))
	r.Record(entry(2, "", true, false))
	r.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	var got Entry
	if err := json.Unmarshal([]byte(lines[1]), &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.Seq != 2 || got.Disposition != "Pest Found" {
		t.Errorf("entry = %+v", got)
	}
}

func TestOpen_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(filepath.Join(blocker, "f280.csv"), nil, nil); err == nil {
		t.Error("expected error when parent is a file")
	}
}

func TestCSVRecorder_ConcurrentWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f280.csv")
	r, err := Open(path, nil, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	const goroutines, perG = 8, 50
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				_ = r.Record(entry(g, "", true, true))
			}
		}(g)
	}
	wg.Wait()
	r.Close()

	data, _ := os.ReadFile(path)
	lines := strings.Split(strings.TrimSpace(string(data)), "\r\n")
	if len(lines) != goroutines*perG+1 {
		t.Fatalf("got %d lines, want %d", len(lines), goroutines*perG+1)
	}
	for _, line := range lines[1:] {
		if strings.Count(line, `","`) != 4 {
			t.Fatalf("interleaved line: %q", line)
		}
	}
}

func TestMemoryRecorder(t *testing.T) {
	m := NewMemoryRecorder(nil)
	m.Record(entry(1, "", true, true))
	m.Record(entry(2, "naive_cfrp", false, true))
	m.Close()

	got := m.Entries()
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[1].Disposition != "CFRP Not Inspected" {
		t.Errorf("Disposition = %q", got[1].Disposition)
	}
	if !m.Closed() {
		t.Error("Closed() = false after Close")
	}
}
