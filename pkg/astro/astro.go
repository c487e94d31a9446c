// Package astro talks to the external Vedic astrology API: birth-detail
// conversion, planetary position fetches, and credential diagnostics.
package astro

import (
	"fmt"
	"strconv"
	"strings"
)

// BirthDetails is the inbound birth data as the HTTP API receives it.
type BirthDetails struct {
	Date      string  `json:"date"`     // "YYYY-MM-DD"
	Time      string  `json:"time"`     // "HH:MM", 24h
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"` // "±HH:MM"
}

// APIRequest is the external API's flat numeric field layout.
type APIRequest struct {
	Day   int     `json:"day"`
	Month int     `json:"month"`
	Year  int     `json:"year"`
	Hour  int     `json:"hour"`
	Min   int     `json:"min"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Tzone float64 `json:"tzone"`
}

// PlanetData is one planet's position in a D1 chart.
type PlanetData struct {
	Name       string  `json:"name"`
	FullDegree float64 `json:"fullDegree"`
	NormDegree float64 `json:"normDegree"`
	Speed      float64 `json:"speed"`
	IsRetro    string  `json:"isRetro"`
	Sign       string  `json:"sign"`
	SignLord   string  `json:"signLord,omitempty"`
	Nakshatra  string  `json:"nakshatra,omitempty"`
	House      int     `json:"house"`
}

// ConvertBirthDetails decomposes date, time, and timezone offset strings
// into the external API's field set. "+05:30" becomes 5.5.
func ConvertBirthDetails(d BirthDetails) (APIRequest, error) {
	year, month, day, err := parseDate(d.Date)
	if err != nil {
		return APIRequest{}, err
	}
	hour, minute, err := parseTime(d.Time)
	if err != nil {
		return APIRequest{}, err
	}
	tzone, err := parseTimezone(d.Timezone)
	if err != nil {
		return APIRequest{}, err
	}

	return APIRequest{
		Day:   day,
		Month: month,
		Year:  year,
		Hour:  hour,
		Min:   minute,
		Lat:   d.Latitude,
		Lon:   d.Longitude,
		Tzone: tzone,
	}, nil
}

func parseDate(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	year, err = strconv.Atoi(parts[0])
	if err == nil {
		month, err = strconv.Atoi(parts[1])
	}
	if err == nil {
		day, err = strconv.Atoi(parts[2])
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid date %q: %w", s, err)
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("invalid date %q: out of range", s)
	}
	return year, month, day, nil
}

func parseTime(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err == nil {
		minute, err = strconv.Atoi(parts[1])
	}
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid time %q: out of range", s)
	}
	return hour, minute, nil
}

func parseTimezone(s string) (float64, error) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, fmt.Errorf("invalid timezone %q, expected ±HH:MM", s)
	}
	sign := 1.0
	if s[0] == '-' {
		sign = -1.0
	}
	parts := strings.Split(s[1:], ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timezone %q, expected ±HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timezone %q: %w", s, err)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid timezone %q: %w", s, err)
	}
	if hours > 14 || minutes > 59 {
		return 0, fmt.Errorf("invalid timezone %q: out of range", s)
	}
	return sign * (float64(hours) + float64(minutes)/60.0), nil
}
