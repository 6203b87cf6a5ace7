package astrodash

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// Picture is one Astronomy Picture of the Day record.
type Picture struct {
	Date        string `json:"date"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	HDURL       string `json:"hdurl,omitempty"`
	ThumbURL    string `json:"thumbnail_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	Copyright   string `json:"copyright,omitempty"`
	Explanation string `json:"explanation"`
}

// PictureOfDay holds the decoded APOD response. The upstream answers with a
// single object for plain requests and with an array for count or range
// requests; exactly one of Single and Collection is set after decoding.
type PictureOfDay struct {
	Single     *Picture
	Collection []Picture
}

func (p *PictureOfDay) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return errors.New("empty picture of the day payload")
	}

	switch trimmed[0] {
	case '[':
		var list []Picture
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return err
		}
		p.Single, p.Collection = nil, list
	case '{':
		var one Picture
		if err := json.Unmarshal(trimmed, &one); err != nil {
			return err
		}
		p.Single, p.Collection = &one, nil
	default:
		return errors.New("picture of the day payload is neither an object nor an array")
	}

	return nil
}

func (p PictureOfDay) MarshalJSON() ([]byte, error) {
	if p.Single != nil {
		return json.Marshal(p.Single)
	}
	return json.Marshal(p.Collection)
}

// IsCollection reports whether the upstream answered with an array.
func (p PictureOfDay) IsCollection() bool {
	return p.Single == nil
}

// Items returns the pictures in display order regardless of the response shape.
func (p PictureOfDay) Items() []Picture {
	if p.Single != nil {
		return []Picture{*p.Single}
	}
	return p.Collection
}

// Number is a float that serializes NaN and infinities as null.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

func (n Number) IsNaN() bool {
	return math.IsNaN(float64(n))
}

// NumericString is an upstream numeric field. The feed sends these as
// strings, numbers are accepted too.
type NumericString string

func (s *NumericString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = ""
		return nil
	}

	if trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(trimmed, &str); err != nil {
			return err
		}
		*s = NumericString(str)
		return nil
	}

	*s = NumericString(trimmed)
	return nil
}

// Float parses the value, NaN when it is absent or not entirely a number.
// A leading number followed by text (e.g. "12.5 km") is rejected too.
func (s NumericString) Float() Number {
	f, err := strconv.ParseFloat(string(s), 64)
	if err != nil {
		return Number(math.NaN())
	}
	return Number(f)
}

// RawFeed is the upstream NEO feed envelope. NearEarthObjects stays raw so
// the date keys can be walked in document order.
type RawFeed struct {
	ElementCount     int             `json:"element_count"`
	NearEarthObjects json.RawMessage `json:"near_earth_objects"`
}

type RawNearEarthObject struct {
	ID                     string             `json:"id"`
	Name                   string             `json:"name"`
	EstimatedDiameter      *RawDiameters      `json:"estimated_diameter"`
	CloseApproachData      []RawCloseApproach `json:"close_approach_data"`
	IsPotentiallyHazardous bool               `json:"is_potentially_hazardous_asteroid"`
	IsSentryObject         bool               `json:"is_sentry_object"`
	AbsoluteMagnitudeH     float64            `json:"absolute_magnitude_h"`
}

type RawDiameters struct {
	Kilometers *RawDiameterRange `json:"kilometers"`
	Meters     *RawDiameterRange `json:"meters"`
}

type RawDiameterRange struct {
	Min *float64 `json:"estimated_diameter_min"`
	Max *float64 `json:"estimated_diameter_max"`
}

type RawCloseApproach struct {
	Date             string        `json:"close_approach_date"`
	DateFull         string        `json:"close_approach_date_full"`
	RelativeVelocity *RawVelocity  `json:"relative_velocity"`
	MissDistance     *RawDistances `json:"miss_distance"`
}

type RawVelocity struct {
	KilometersPerSecond NumericString `json:"kilometers_per_second"`
	KilometersPerHour   NumericString `json:"kilometers_per_hour"`
}

type RawDistances struct {
	Kilometers NumericString `json:"kilometers"`
	Lunar      NumericString `json:"lunar"`
}

// NormalizedAsteroid is a flattened NEO record with kilometer based values.
type NormalizedAsteroid struct {
	ID                     string         `json:"id"`
	Name                   string         `json:"name"`
	EstimatedDiameter      *Diameter      `json:"estimatedDiameter"`
	CloseApproach          *CloseApproach `json:"closeApproach"`
	IsPotentiallyHazardous bool           `json:"isPotentiallyHazardous"`
	IsSentryObject         bool           `json:"isSentryObject"`
	AbsoluteMagnitude      float64        `json:"absoluteMagnitude"`
}

// Diameter in kilometers.
type Diameter struct {
	Min Number `json:"min"`
	Max Number `json:"max"`
	Avg Number `json:"avg"`
}

type CloseApproach struct {
	Date         string       `json:"date"`
	FullDate     string       `json:"fullDate"`
	Velocity     Velocity     `json:"velocity"`
	MissDistance MissDistance `json:"missDistance"`
}

type Velocity struct {
	KmPerSecond Number `json:"kmPerSecond"`
	KmPerHour   Number `json:"kmPerHour"`
}

type MissDistance struct {
	Kilometers Number `json:"kilometers"`
	Lunar      Number `json:"lunar"`
}

// DaySummary groups the normalized objects reported for one feed date.
type DaySummary struct {
	Date         string               `json:"date"`
	TotalObjects int                  `json:"totalObjects"`
	Asteroids    []NormalizedAsteroid `json:"asteroids"`
}

// Extreme is an asteroid picked by one of the statistics, with the feed date it was listed under.
type Extreme struct {
	Asteroid NormalizedAsteroid `json:"asteroid"`
	Date     string             `json:"date"`
}

type Statistics struct {
	TotalAsteroids  int      `json:"totalAsteroids"`
	HazardousCount  int      `json:"hazardousCount"`
	AverageVelocity string   `json:"averageVelocity"`
	LargestObject   *Extreme `json:"largestObject"`
	FastestObject   *Extreme `json:"fastestObject"`
	ClosestObject   *Extreme `json:"closestObject"`
}
