package models

import (
	"errors"
	"fmt"
	"time"
)

// Stage errors returned when a pipeline stage writes a field that an earlier
// call already finalized.
var (
	ErrAlreadyInfested  = errors.New("shipment infestation already applied")
	ErrAlreadyInspected = errors.New("shipment inspection already recorded")
)

// Shipment is one consignment of a commodity arriving at a port.
//
// Identity fields are set once by a shipment source. The infestation is
// written once by a pest model (ApplyStemInfestation or ApplyBoxInfestation)
// and the inspection result once by the runner (RecordInspection). NumBoxes,
// NumStems and the lengths of the unit slices never change after NewShipment.
type Shipment struct {
	// Seq is the 1-based position of the shipment within its run.
	Seq         int       `json:"seq"`
	Port        string    `json:"port"`
	Origin      string    `json:"origin"`
	Commodity   string    `json:"commodity"`
	ArrivalTime time.Time `json:"arrival_time"`
	NumBoxes    int       `json:"num_boxes"`
	NumStems    int       `json:"num_stems"`
	StemsPerBox int       `json:"stems_per_box"`

	stems     []bool
	boxes     []bool
	infested  bool
	inspected bool
	examined  int
}

// NewShipment validates unit counts and allocates clean stems and boxes.
// numStems may be less than numBoxes*stemsPerBox when the last box is partial.
func NewShipment(port, origin, commodity string, arrival time.Time, numBoxes, numStems, stemsPerBox int) (*Shipment, error) {
	if numBoxes < 1 {
		return nil, fmt.Errorf("new shipment: num_boxes must be at least 1, got %d", numBoxes)
	}
	if stemsPerBox < 1 {
		return nil, fmt.Errorf("new shipment: stems_per_box must be at least 1, got %d", stemsPerBox)
	}
	if numStems < numBoxes || numStems > numBoxes*stemsPerBox {
		return nil, fmt.Errorf("new shipment: %d stems do not fit %d boxes of %d", numStems, numBoxes, stemsPerBox)
	}
	return &Shipment{
		Port:        port,
		Origin:      origin,
		Commodity:   commodity,
		ArrivalTime: arrival,
		NumBoxes:    numBoxes,
		NumStems:    numStems,
		StemsPerBox: stemsPerBox,
		stems:       make([]bool, numStems),
		boxes:       make([]bool, numBoxes),
	}, nil
}

// NewShipmentWithBoxes builds a single-stem-per-box shipment whose box
// infestation is already known, as replayed scenarios and tests need.
func NewShipmentWithBoxes(port, origin, commodity string, arrival time.Time, boxes []bool) (*Shipment, error) {
	s, err := NewShipment(port, origin, commodity, arrival, len(boxes), len(boxes), 1)
	if err != nil {
		return nil, err
	}
	if err := s.ApplyBoxInfestation(boxes); err != nil {
		return nil, err
	}
	return s, nil
}

// ApplyStemInfestation sets which stems carry pest and derives box status:
// a box is infested iff any of its stems is.
func (s *Shipment) ApplyStemInfestation(stems []bool) error {
	if s.infested {
		return ErrAlreadyInfested
	}
	if len(stems) != s.NumStems {
		return fmt.Errorf("apply stem infestation: got %d stems, shipment has %d", len(stems), s.NumStems)
	}
	copy(s.stems, stems)
	for i := range s.boxes {
		lo, hi := s.boxStems(i)
		for _, infested := range s.stems[lo:hi] {
			if infested {
				s.boxes[i] = true
				break
			}
		}
	}
	s.infested = true
	return nil
}

// ApplyBoxInfestation sets box status directly. Every stem of an infested
// box is marked infested so stem-level previews stay consistent.
func (s *Shipment) ApplyBoxInfestation(boxes []bool) error {
	if s.infested {
		return ErrAlreadyInfested
	}
	if len(boxes) != s.NumBoxes {
		return fmt.Errorf("apply box infestation: got %d boxes, shipment has %d", len(boxes), s.NumBoxes)
	}
	copy(s.boxes, boxes)
	for i, infested := range s.boxes {
		if !infested {
			continue
		}
		lo, hi := s.boxStems(i)
		for j := lo; j < hi; j++ {
			s.stems[j] = true
		}
	}
	s.infested = true
	return nil
}

// RecordInspection stores the number of boxes an inspection examined.
func (s *Shipment) RecordInspection(v Verdict) error {
	if s.inspected {
		return ErrAlreadyInspected
	}
	if v.BoxesExamined < 0 || v.BoxesExamined > s.NumBoxes {
		return fmt.Errorf("record inspection: %d boxes examined, shipment has %d", v.BoxesExamined, s.NumBoxes)
	}
	s.examined = v.BoxesExamined
	s.inspected = true
	return nil
}

// boxStems returns the half-open stem range of box i.
func (s *Shipment) boxStems(i int) (int, int) {
	lo := i * s.StemsPerBox
	hi := lo + s.StemsPerBox
	if hi > s.NumStems {
		hi = s.NumStems
	}
	return lo, hi
}

// Box reports whether box i is infested.
func (s *Shipment) Box(i int) bool { return s.boxes[i] }

// Stem reports whether stem i is infested.
func (s *Shipment) Stem(i int) bool { return s.stems[i] }

// BoxStems returns the infestation of the stems packed in box i.
// The returned slice aliases shipment state and must not be modified.
func (s *Shipment) BoxStems(i int) []bool {
	lo, hi := s.boxStems(i)
	return s.stems[lo:hi]
}

// IsInfested is the ground truth: true iff any box carries pest.
func (s *Shipment) IsInfested() bool {
	for _, b := range s.boxes {
		if b {
			return true
		}
	}
	return false
}

// CountInfestedBoxes returns the number of boxes with pest.
func (s *Shipment) CountInfestedBoxes() int {
	n := 0
	for _, b := range s.boxes {
		if b {
			n++
		}
	}
	return n
}

// CountInfestedStems returns the number of stems with pest.
func (s *Shipment) CountInfestedStems() int {
	n := 0
	for _, st := range s.stems {
		if st {
			n++
		}
	}
	return n
}

// Inspected reports whether an inspection was recorded.
func (s *Shipment) Inspected() bool { return s.inspected }

// BoxesInspected returns the boxes examined by the recorded inspection, or 0.
func (s *Shipment) BoxesInspected() int { return s.examined }
