// Package neo turns the NASA near earth object feed into per-day summaries
// and computes the dashboard statistics over them.
package neo

import (
	"astrodash"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// ErrProcess is returned for any feed that does not have the expected shape.
var ErrProcess = errors.New("failed to process data")

// Process normalizes a raw feed body. Days come out in the order the feed
// lists them, asteroids in upstream order. No partial result is returned.
func Process(raw []byte) ([]astrodash.DaySummary, error) {
	days, err := process(raw)
	if err != nil {
		logrus.Errorf("error processing NEO data: %q", err)
		return nil, ErrProcess
	}
	return days, nil
}

func process(raw []byte) ([]astrodash.DaySummary, error) {
	var feed astrodash.RawFeed
	if err := json.Unmarshal(raw, &feed); err != nil {
		return nil, err
	}

	objects := bytes.TrimSpace(feed.NearEarthObjects)
	if len(objects) == 0 || bytes.Equal(objects, []byte("null")) {
		return nil, errors.New("near_earth_objects is missing")
	}

	dec := json.NewDecoder(bytes.NewReader(objects))

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("near_earth_objects is not an object: %v", tok)
	}

	days := make([]astrodash.DaySummary, 0)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		date, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key %v", tok)
		}

		var list []astrodash.RawNearEarthObject
		if err := dec.Decode(&list); err != nil {
			return nil, fmt.Errorf("date %s: %w", date, err)
		}
		if list == nil {
			return nil, fmt.Errorf("date %s: no object list", date)
		}

		asteroids := make([]astrodash.NormalizedAsteroid, 0, len(list))
		for _, o := range list {
			asteroids = append(asteroids, normalize(o))
		}

		days = append(days, astrodash.DaySummary{
			Date:         date,
			TotalObjects: len(asteroids),
			Asteroids:    asteroids,
		})
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return days, nil
}

func normalize(o astrodash.RawNearEarthObject) astrodash.NormalizedAsteroid {
	return astrodash.NormalizedAsteroid{
		ID:                     o.ID,
		Name:                   o.Name,
		EstimatedDiameter:      diameter(o.EstimatedDiameter),
		CloseApproach:          closeApproach(o.CloseApproachData),
		IsPotentiallyHazardous: o.IsPotentiallyHazardous,
		IsSentryObject:         o.IsSentryObject,
		AbsoluteMagnitude:      o.AbsoluteMagnitudeH,
	}
}

func diameter(d *astrodash.RawDiameters) *astrodash.Diameter {
	if d == nil || d.Kilometers == nil {
		return nil
	}

	lo, hi := orNaN(d.Kilometers.Min), orNaN(d.Kilometers.Max)
	return &astrodash.Diameter{
		Min: astrodash.Number(lo),
		Max: astrodash.Number(hi),
		Avg: astrodash.Number((lo + hi) / 2),
	}
}

// closeApproach uses the first record only. Missing numbers become NaN.
func closeApproach(data []astrodash.RawCloseApproach) *astrodash.CloseApproach {
	if len(data) == 0 {
		return nil
	}
	first := data[0]

	var v astrodash.RawVelocity
	if first.RelativeVelocity != nil {
		v = *first.RelativeVelocity
	}
	var m astrodash.RawDistances
	if first.MissDistance != nil {
		m = *first.MissDistance
	}

	return &astrodash.CloseApproach{
		Date:     first.Date,
		FullDate: first.DateFull,
		Velocity: astrodash.Velocity{
			KmPerSecond: v.KilometersPerSecond.Float(),
			KmPerHour:   v.KilometersPerHour.Float(),
		},
		MissDistance: astrodash.MissDistance{
			Kilometers: m.Kilometers.Float(),
			Lunar:      m.Lunar.Float(),
		},
	}
}

func orNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
