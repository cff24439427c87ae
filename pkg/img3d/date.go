package img3d

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a calendar date on the proleptic Gregorian calendar
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateFromDaysSince1900 converts a day count since 1900-01-01 to a date.
// The arithmetic is the closed-form conversion survex uses: the count is
// shifted onto a March-based epoch and decomposed through 400/100/4/1-year
// cycles.
func DateFromDaysSince1900(days int) Date {
	days += 693901
	g := days / 146097
	dg := days % 146097
	c := (dg/36524 + 1) * 3 / 4
	dc := dg - c*36524
	b := dc / 1461
	db := dc % 1461
	a := (db/365 + 1) * 3 / 4
	da := db - a*365
	y := g*400 + c*100 + b*4 + a
	m := (da*5 + 308) / 153
	return Date{
		Year:  y + m/12,
		Month: time.Month(m%12 + 1),
		Day:   da - (m+2)*153/5 + 123,
	}
}

// Time returns the date at midnight UTC
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	t := d.Time().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Before reports whether d is earlier than o
func (d Date) Before(o Date) bool {
	return d.Time().Before(o.Time())
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// DateRange is an inclusive span of survey dates
type DateRange struct {
	From Date `json:"from"`
	To   Date `json:"to"`
}

// readDateMark decodes the payload of date opcodes 0x10-0x13
func readDateMark(c *Cursor, code uint8) (DateMark, error) {
	switch code {
	case opDateNone:
		return DateMark{}, nil
	case opDate:
		days, err := c.ReadUint16()
		if err != nil {
			return DateMark{}, err
		}
		d := DateFromDaysSince1900(int(days))
		return DateMark{Primary: &d}, nil
	case opDateSpan:
		days, err := c.ReadUint16()
		if err != nil {
			return DateMark{}, err
		}
		span, err := c.ReadUint8()
		if err != nil {
			return DateMark{}, err
		}
		return dateRange(int(days), int(days)+int(span)), nil
	case opDateRange:
		days1, err := c.ReadUint16()
		if err != nil {
			return DateMark{}, err
		}
		days2, err := c.ReadUint16()
		if err != nil {
			return DateMark{}, err
		}
		return dateRange(int(days1), int(days2)), nil
	}
	return DateMark{}, fmt.Errorf("opcode 0x%02X is not a date", code)
}

func dateRange(days1, days2 int) DateMark {
	from := DateFromDaysSince1900(days1)
	to := DateFromDaysSince1900(days2)
	return DateMark{Primary: &from, Range: &DateRange{From: from, To: to}}
}
