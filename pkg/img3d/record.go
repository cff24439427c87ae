package img3d

import (
	"encoding/json"
	"strings"
)

// Kind identifies a record variant
type Kind uint8

const (
	KindStop Kind = iota
	KindStyle
	KindMove
	KindDate
	KindError
	KindCrossSection
	KindLine
	KindLabel
	KindUnknown
)

var kindNames = [...]string{
	KindStop:         "STOP",
	KindStyle:        "STYLE",
	KindMove:         "MOVE",
	KindDate:         "DATE",
	KindError:        "ERROR",
	KindCrossSection: "XSECT",
	KindLine:         "LINE",
	KindLabel:        "LABEL",
	KindUnknown:      "UNKNOWN",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "UNKNOWN"
}

// ParseKind resolves a kind name such as "LINE" (case-insensitive)
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k), true
		}
	}
	return 0, false
}

// Kinds lists every record kind in declaration order
func Kinds() []Kind {
	out := make([]Kind, len(kindNames))
	for i := range kindNames {
		out[i] = Kind(i)
	}
	return out
}

// Record is one decoded item of a 3D image file. The concrete type is one of
// Stop, StyleChange, Move, DateMark, ErrorClosure, CrossSection, Line,
// LabelPoint or Unknown.
type Record interface {
	Kind() Kind
	isRecord()
}

// Style is the survey style set by a style-change record
type Style uint8

const (
	StyleDiving    Style = 1
	StyleCartesian Style = 2
	StyleCylPolar  Style = 3
	StyleNoSurvey  Style = 4
)

func (s Style) String() string {
	switch s {
	case StyleDiving:
		return "DIVING"
	case StyleCartesian:
		return "CARTESIAN"
	case StyleCylPolar:
		return "CYLPOLAR"
	case StyleNoSurvey:
		return "NOSURVEY"
	}
	return "UNKNOWN"
}

func (s Style) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Point is a position in metres
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// LineFlags is the flag set of a line record
type LineFlags uint8

const (
	LineAboveGround LineFlags = 0x01
	LineDuplicate   LineFlags = 0x02
	LineSplay       LineFlags = 0x04
)

var lineFlagNames = []flagName{
	{uint8(LineAboveGround), "ABOVE_GROUND"},
	{uint8(LineDuplicate), "DUPLICATE"},
	{uint8(LineSplay), "SPLAY"},
}

// Has reports whether every flag in f is set
func (l LineFlags) Has(f LineFlags) bool { return l&f == f }

// Names returns the set flags by name
func (l LineFlags) Names() []string { return flagNames(uint8(l), lineFlagNames) }

func (l LineFlags) String() string { return strings.Join(l.Names(), "|") }

func (l LineFlags) MarshalJSON() ([]byte, error) { return json.Marshal(l.Names()) }

// LabelFlags is the flag set of a station label record
type LabelFlags uint8

const (
	LabelAboveGround LabelFlags = 0x01
	LabelUnderground LabelFlags = 0x02
	LabelEntrance    LabelFlags = 0x04
	LabelExport      LabelFlags = 0x08
	LabelFixed       LabelFlags = 0x10
	LabelAnonymous   LabelFlags = 0x20
	LabelPassageWall LabelFlags = 0x40
)

var labelFlagNames = []flagName{
	{uint8(LabelAboveGround), "ABOVE_GROUND"},
	{uint8(LabelUnderground), "UNDERGROUND"},
	{uint8(LabelEntrance), "ENTRANCE"},
	{uint8(LabelExport), "EXPORT"},
	{uint8(LabelFixed), "FIXED"},
	{uint8(LabelAnonymous), "ANONYMOUS"},
	{uint8(LabelPassageWall), "PASSAGE_WALL"},
}

// Has reports whether every flag in f is set
func (l LabelFlags) Has(f LabelFlags) bool { return l&f == f }

// Names returns the set flags by name
func (l LabelFlags) Names() []string { return flagNames(uint8(l), labelFlagNames) }

func (l LabelFlags) String() string { return strings.Join(l.Names(), "|") }

func (l LabelFlags) MarshalJSON() ([]byte, error) { return json.Marshal(l.Names()) }

type flagName struct {
	bit  uint8
	name string
}

func flagNames(v uint8, table []flagName) []string {
	names := []string{}
	for _, f := range table {
		if v&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// Stop marks the end of a section of the file
type Stop struct{}

// StyleChange sets the style of subsequent legs
type StyleChange struct {
	Style Style `json:"style"`
}

// Move moves the pen without drawing
type Move struct {
	Point
}

// DateMark sets the survey date of subsequent legs. Primary is nil when the
// date is unknown; Range is set only for the two range encodings.
type DateMark struct {
	Primary *Date      `json:"date"`
	Range   *DateRange `json:"range"`
}

// ErrorClosure carries loop-closure statistics for the preceding traverse
type ErrorClosure struct {
	Legs   int32   `json:"legs"`
	Length float64 `json:"length"`
	E      float64 `json:"e"`
	H      float64 `json:"h"`
	V      float64 `json:"v"`
}

// CrossSection carries LRUD passage dimensions at a station. A nil
// measurement was not recorded.
type CrossSection struct {
	Label         string   `json:"label"`
	Left          *float64 `json:"left"`
	Right         *float64 `json:"right"`
	Up            *float64 `json:"up"`
	Down          *float64 `json:"down"`
	LastInPassage bool     `json:"last_in_passage"`
}

// Line draws a leg from the pen to Point. Label is nil when the record
// carries no label edit.
type Line struct {
	Label *string   `json:"label"`
	Point           // Leg end
	Flags LineFlags `json:"flags"`
}

// LabelPoint places a station label
type LabelPoint struct {
	Label string `json:"label"`
	Point
	Flags LabelFlags `json:"flags"`
}

// Unknown records an opcode outside every known range. Its payload, if it
// has one, is not consumed.
type Unknown struct {
	Opcode uint8 `json:"opcode"`
}

func (Stop) Kind() Kind         { return KindStop }
func (StyleChange) Kind() Kind  { return KindStyle }
func (Move) Kind() Kind         { return KindMove }
func (DateMark) Kind() Kind     { return KindDate }
func (ErrorClosure) Kind() Kind { return KindError }
func (CrossSection) Kind() Kind { return KindCrossSection }
func (Line) Kind() Kind         { return KindLine }
func (LabelPoint) Kind() Kind   { return KindLabel }
func (Unknown) Kind() Kind      { return KindUnknown }

func (Stop) isRecord()         {}
func (StyleChange) isRecord()  {}
func (Move) isRecord()         {}
func (DateMark) isRecord()     {}
func (ErrorClosure) isRecord() {}
func (CrossSection) isRecord() {}
func (Line) isRecord()         {}
func (LabelPoint) isRecord()   {}
func (Unknown) isRecord()      {}

// MarshalRecord encodes r as a JSON object tagged with its kind
func MarshalRecord(r Record) ([]byte, error) {
	body, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	kind, _ := json.Marshal(r.Kind().String())
	if string(body) == "{}" {
		return []byte(`{"kind":` + string(kind) + `}`), nil
	}
	return append([]byte(`{"kind":`+string(kind)+`,`), body[1:]...), nil
}

// Records is an ordered record sequence that marshals with kind tags
type Records []Record

func (rs Records) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(rs))
	for i, r := range rs {
		b, err := MarshalRecord(r)
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return json.Marshal(out)
}

// Filter returns the records of the given kinds
func (rs Records) Filter(kinds ...Kind) Records {
	out := Records{}
	for _, r := range rs {
		for _, k := range kinds {
			if r.Kind() == k {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
