// Package solar computes sunrise and sunset instants for a location and
// calendar date. All functions are pure and safe to call from any goroutine.
package solar

import (
	"math"
	"time"
)

// horizonAngle is the solar elevation at sunrise/sunset: -50 arc minutes,
// accounting for atmospheric refraction (34') and the solar disk radius (16').
const horizonAngle = -0.833

// Events contains the sunrise and sunset instants for one calendar day at one
// location. Both are nil during polar day or polar night; when both are
// present, sunrise is strictly before sunset.
type Events struct {
	Sunrise *time.Time
	Sunset  *time.Time
}

// Polar returns true if the sun does not cross the horizon on this day.
func (e Events) Polar() bool {
	return e.Sunrise == nil || e.Sunset == nil
}

// EventsFor computes the sunrise and sunset instants for the calendar day
// containing date in the given timezone. Latitude is in degrees north,
// longitude in degrees east.
func EventsFor(lat, lon float64, date time.Time, tz *time.Location) Events {
	local := date.In(tz)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)

	// Julian day - add 0.5 because the NOAA sunrise equation expects JD at noon
	jd := toJulianDay(day) + 0.5

	// Days since J2000 epoch, corrected to mean solar noon at this longitude
	n := jd - 2451545.0 + 0.0008
	jStar := n - lon/360.0

	// Solar mean anomaly
	m := normalizeDeg(357.5291 + 0.98560028*jStar)
	mRad := m * math.Pi / 180.0

	// Equation of center
	c := 1.9148*math.Sin(mRad) + 0.02*math.Sin(2*mRad) + 0.0003*math.Sin(3*mRad)

	// Ecliptic longitude
	lambda := normalizeDeg(m + c + 180 + 102.9372)
	lambdaRad := lambda * math.Pi / 180.0

	// Solar transit, with the equation-of-time correction folded in
	jTransit := 2451545.0 + jStar + 0.0053*math.Sin(mRad) - 0.0069*math.Sin(2*lambdaRad)

	// Declination of the sun
	sinDec := math.Sin(lambdaRad) * math.Sin(23.44*math.Pi/180.0)
	dec := math.Asin(sinDec)

	// Hour angle at which the sun crosses the horizon
	latRad := lat * math.Pi / 180.0
	angleRad := horizonAngle * math.Pi / 180.0

	cosOmega := (math.Sin(angleRad) - math.Sin(latRad)*math.Sin(dec)) / (math.Cos(latRad) * math.Cos(dec))

	// No crossing: the sun stays above (polar day) or below (polar night)
	// the horizon for the whole day.
	if cosOmega >= 1 || cosOmega <= -1 {
		return Events{}
	}

	omega := math.Acos(cosOmega) * 180.0 / math.Pi

	sunrise := julianToTime(jTransit-omega/360.0, tz)
	sunset := julianToTime(jTransit+omega/360.0, tz)

	return Events{Sunrise: &sunrise, Sunset: &sunset}
}

// Noon computes the solar noon instant for the calendar day containing date.
func Noon(lat, lon float64, date time.Time, tz *time.Location) time.Time {
	local := date.In(tz)
	day := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, tz)

	jd := toJulianDay(day) + 0.5
	n := jd - 2451545.0 + 0.0008
	jStar := n - lon/360.0

	m := normalizeDeg(357.5291 + 0.98560028*jStar)
	mRad := m * math.Pi / 180.0

	c := 1.9148*math.Sin(mRad) + 0.02*math.Sin(2*mRad) + 0.0003*math.Sin(3*mRad)
	lambda := normalizeDeg(m + c + 180 + 102.9372)
	lambdaRad := lambda * math.Pi / 180.0

	jTransit := 2451545.0 + jStar + 0.0053*math.Sin(mRad) - 0.0069*math.Sin(2*lambdaRad)

	return julianToTime(jTransit, tz)
}

// toJulianDay converts a date to Julian day number
func toJulianDay(t time.Time) float64 {
	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	if m <= 2 {
		y--
		m += 12
	}

	a := math.Floor(y / 100)
	b := 2 - a + math.Floor(a/4)

	return math.Floor(365.25*(y+4716)) + math.Floor(30.6001*(m+1)) + d + b - 1524.5
}

// julianToTime converts a Julian day to a time.Time in the given timezone
func julianToTime(jd float64, tz *time.Location) time.Time {
	unixTime := (jd - 2440587.5) * 86400.0
	sec := math.Floor(unixTime)
	return time.Unix(int64(sec), int64((unixTime-sec)*1e9)).In(tz).Truncate(time.Second)
}

// normalizeDeg wraps an angle into [0, 360)
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}
