// Package survey builds a navigable model of a decoded 3D image file:
// stations indexed by label, legs with their style and date, passages of
// cross-sections, and summary totals.
package survey

import (
	"math"
	"time"

	"github.com/ssargent/survex3d/pkg/bptree"
	"github.com/ssargent/survex3d/pkg/img3d"
)

const stationIndexOrder = 32

// Station is a labelled survey point
type Station struct {
	Label string           `json:"label"`
	Pos   img3d.Point      `json:"pos"`
	Flags img3d.LabelFlags `json:"flags"`
}

// Leg is a drawn line between two points
type Leg struct {
	From  img3d.Point     `json:"from"`
	To    img3d.Point     `json:"to"`
	Label string          `json:"label,omitempty"` // inherited from the last labelled record when the line carries none
	Style img3d.Style     `json:"style"`
	Date  *img3d.Date     `json:"date,omitempty"`
	Flags img3d.LineFlags `json:"flags"`
}

// Length returns the straight-line length of the leg in metres
func (l Leg) Length() float64 {
	return distance(l.From, l.To)
}

// Passage is a run of cross-sections closed by one flagged last-in-passage
type Passage []img3d.CrossSection

// Bounds is an axis-aligned bounding box in metres
type Bounds struct {
	Min img3d.Point `json:"min"`
	Max img3d.Point `json:"max"`
}

// Survey is the replayed content of one file
type Survey struct {
	Header        img3d.Header
	Legs          []Leg
	Passages      []Passage
	ErrorClosures []img3d.ErrorClosure
	Unknown       []img3d.Unknown

	stations *bptree.BPlusTree[string, Station]
	counts   map[img3d.Kind]int
	dates    []img3d.Date
	bounds   *Bounds
}

// Build replays records in file order
func Build(header img3d.Header, records img3d.Records) *Survey {
	s := &Survey{
		Header:   header,
		stations: bptree.NewBPlusTree[string, Station](stationIndexOrder),
		counts:   make(map[img3d.Kind]int),
	}

	var (
		pen     img3d.Point
		label   string
		style   img3d.Style
		date    *img3d.Date
		passage Passage
	)
	for _, rec := range records {
		s.counts[rec.Kind()]++

		switch r := rec.(type) {
		case img3d.StyleChange:
			style = r.Style
		case img3d.DateMark:
			date = r.Primary
			if r.Primary != nil {
				s.dates = append(s.dates, *r.Primary)
			}
			if r.Range != nil {
				s.dates = append(s.dates, r.Range.To)
			}
		case img3d.Move:
			pen = r.Point
			s.extend(pen)
		case img3d.Line:
			if r.Label != nil {
				label = *r.Label
			}
			s.Legs = append(s.Legs, Leg{From: pen, To: r.Point, Label: label, Style: style, Date: date, Flags: r.Flags})
			pen = r.Point
			s.extend(pen)
		case img3d.LabelPoint:
			label = r.Label
			s.stations.Insert(r.Label, Station{Label: r.Label, Pos: r.Point, Flags: r.Flags})
			s.extend(r.Point)
		case img3d.CrossSection:
			label = r.Label
			passage = append(passage, r)
			if r.LastInPassage {
				s.Passages = append(s.Passages, passage)
				passage = nil
			}
		case img3d.ErrorClosure:
			s.ErrorClosures = append(s.ErrorClosures, r)
		case img3d.Unknown:
			s.Unknown = append(s.Unknown, r)
		}
	}
	if len(passage) > 0 {
		s.Passages = append(s.Passages, passage)
	}
	return s
}

// Station looks up a station by its full label
func (s *Survey) Station(label string) (Station, bool) {
	return s.stations.Search(label)
}

// Stations returns every station in label order
func (s *Survey) Stations() []Station {
	return s.stations.Values()
}

// StationsWithPrefix returns the stations whose label starts with prefix,
// in label order
func (s *Survey) StationsWithPrefix(prefix string) []Station {
	return bptree.ScanPrefix(s.stations, prefix)
}

func (s *Survey) extend(p img3d.Point) {
	if s.bounds == nil {
		s.bounds = &Bounds{Min: p, Max: p}
		return
	}
	s.bounds.Min = img3d.Point{X: math.Min(s.bounds.Min.X, p.X), Y: math.Min(s.bounds.Min.Y, p.Y), Z: math.Min(s.bounds.Min.Z, p.Z)}
	s.bounds.Max = img3d.Point{X: math.Max(s.bounds.Max.X, p.X), Y: math.Max(s.bounds.Max.Y, p.Y), Z: math.Max(s.bounds.Max.Z, p.Z)}
}

func distance(a, b img3d.Point) float64 {
	dx, dy, dz := b.X-a.X, b.Y-a.Y, b.Z-a.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Totals summarises a survey
type Totals struct {
	Records        map[string]int `json:"records"`
	Legs           int            `json:"legs"`
	TotalLength    float64        `json:"total_length"`
	SurveyedLength float64        `json:"surveyed_length"` // excludes duplicate and splay legs
	Stations       int            `json:"stations"`
	Entrances      int            `json:"entrances"`
	FixedPoints    int            `json:"fixed_points"`
	Passages       int            `json:"passages"`
	UnknownOpcodes int            `json:"unknown_opcodes"`
	Bounds         *Bounds        `json:"bounds,omitempty"`
	FirstDate      *img3d.Date    `json:"first_date,omitempty"`
	LastDate       *img3d.Date    `json:"last_date,omitempty"`
	Timestamp      *time.Time     `json:"timestamp,omitempty"`
}

// Totals computes summary figures for the survey
func (s *Survey) Totals() Totals {
	t := Totals{
		Records:        make(map[string]int, len(s.counts)),
		Legs:           len(s.Legs),
		Stations:       s.stations.Len(),
		Passages:       len(s.Passages),
		UnknownOpcodes: len(s.Unknown),
		Timestamp:      s.Header.Timestamp,
	}
	for k, n := range s.counts {
		t.Records[k.String()] = n
	}
	for _, leg := range s.Legs {
		l := leg.Length()
		t.TotalLength += l
		if !leg.Flags.Has(img3d.LineDuplicate) && !leg.Flags.Has(img3d.LineSplay) {
			t.SurveyedLength += l
		}
	}
	for _, st := range s.stations.Values() {
		if st.Flags.Has(img3d.LabelEntrance) {
			t.Entrances++
		}
		if st.Flags.Has(img3d.LabelFixed) {
			t.FixedPoints++
		}
	}
	if s.bounds != nil {
		b := *s.bounds
		t.Bounds = &b
	}
	for i := range s.dates {
		d := s.dates[i]
		if t.FirstDate == nil || d.Before(*t.FirstDate) {
			t.FirstDate = &d
		}
		if t.LastDate == nil || t.LastDate.Before(d) {
			t.LastDate = &d
		}
	}
	return t
}
