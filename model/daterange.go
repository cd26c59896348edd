/*
daterange.go - Date string helpers

PURPOSE:
  Every date in the data model is a plain YYYY-MM-DD string. The format
  sorts lexicographically, so inclusive range filters are string
  comparisons. This file owns the shape check and range enumeration so
  the engines never re-implement either.
*/
package model

import "time"

// DateLayout is the only date format the core accepts.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and returns its time value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, &InvalidDateError{Value: s}
	}
	return t, nil
}

// DateRange is an inclusive [Start, End] range of YYYY-MM-DD dates.
// The zero value is an open range that contains every date.
type DateRange struct {
	Start string
	End   string
}

// NewDateRange validates both endpoints and their ordering.
func NewDateRange(start, end string) (DateRange, error) {
	if _, err := ParseDate(start); err != nil {
		return DateRange{}, err
	}
	if _, err := ParseDate(end); err != nil {
		return DateRange{}, err
	}
	if start > end {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Validate checks whichever endpoints are set. Either may be empty,
// which leaves that side of the range open.
func (r DateRange) Validate() error {
	if r.Start != "" {
		if _, err := ParseDate(r.Start); err != nil {
			return err
		}
	}
	if r.End != "" {
		if _, err := ParseDate(r.End); err != nil {
			return err
		}
	}
	if r.Start != "" && r.End != "" && r.Start > r.End {
		return ErrInvalidDateRange
	}
	return nil
}

// Contains reports whether date falls inside the range. Open endpoints
// match everything on their side.
func (r DateRange) Contains(date string) bool {
	if r.Start != "" && date < r.Start {
		return false
	}
	if r.End != "" && date > r.End {
		return false
	}
	return true
}

// IsOpen reports whether neither endpoint is set.
func (r DateRange) IsOpen() bool { return r.Start == "" && r.End == "" }

// Dates enumerates every date in a closed range, inclusive. Both
// endpoints must be set and valid; garbage in returns an empty slice.
func (r DateRange) Dates() []string {
	start, err := ParseDate(r.Start)
	if err != nil {
		return nil
	}
	end, err := ParseDate(r.End)
	if err != nil {
		return nil
	}
	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}
