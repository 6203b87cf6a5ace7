package neo

import (
	"astrodash"
	"fmt"
)

// Extract computes the dashboard statistics over days. Extremes use strict
// comparisons so the first record wins ties; records without a diameter or
// close approach are skipped for the matching extreme and add nothing to
// the velocity sum.
func Extract(days []astrodash.DaySummary) astrodash.Statistics {
	var (
		stats    astrodash.Statistics
		velocity float64
	)

	for _, day := range days {
		stats.TotalAsteroids += day.TotalObjects

		for _, a := range day.Asteroids {
			if a.IsPotentiallyHazardous {
				stats.HazardousCount++
			}

			if d := a.EstimatedDiameter; d != nil {
				if stats.LargestObject == nil || d.Max > stats.LargestObject.Asteroid.EstimatedDiameter.Max {
					stats.LargestObject = &astrodash.Extreme{Asteroid: a, Date: day.Date}
				}
			}

			ca := a.CloseApproach
			if ca == nil {
				continue
			}

			velocity += float64(ca.Velocity.KmPerHour)

			if stats.FastestObject == nil || ca.Velocity.KmPerHour > stats.FastestObject.Asteroid.CloseApproach.Velocity.KmPerHour {
				stats.FastestObject = &astrodash.Extreme{Asteroid: a, Date: day.Date}
			}
			if stats.ClosestObject == nil || ca.MissDistance.Kilometers < stats.ClosestObject.Asteroid.CloseApproach.MissDistance.Kilometers {
				stats.ClosestObject = &astrodash.Extreme{Asteroid: a, Date: day.Date}
			}
		}
	}

	stats.AverageVelocity = "0"
	if stats.TotalAsteroids > 0 {
		stats.AverageVelocity = fmt.Sprintf("%.2f", velocity/float64(stats.TotalAsteroids))
	}

	return stats
}
