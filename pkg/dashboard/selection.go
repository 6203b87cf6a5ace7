package dashboard

import (
	"astrodash"
	"astrodash/pkg/consts"
	"errors"
	"time"
)

var (
	ErrEndBeforeStart = errors.New("end date cannot be before start date")
	ErrRangeTooLong   = errors.New("date range cannot exceed 7 days")
)

// Selection is the dashboard date input state. A zero SelectedDate means
// range mode, otherwise the feed is requested for StartDate only.
type Selection struct {
	StartDate    time.Time
	EndDate      time.Time
	SelectedDate time.Time
}

// NewSelection starts a week long range at today.
func NewSelection(today time.Time) Selection {
	var s Selection
	s.SetStartDate(today)
	return s
}

// SetStartDate moves the range start and resets the end to start+7 days.
func (s *Selection) SetStartDate(d time.Time) {
	s.StartDate = dateOf(d)
	s.EndDate = s.StartDate.AddDate(0, 0, consts.FeedRangeDays)
	s.SelectedDate = time.Time{}
}

// SetEndDate accepts d only if it falls within 7 days after StartDate.
// A rejected edit leaves the selection untouched.
func (s *Selection) SetEndDate(d time.Time) error {
	d = dateOf(d)

	if d.Before(s.StartDate) {
		return ErrEndBeforeStart
	}
	if d.After(s.StartDate.AddDate(0, 0, consts.FeedRangeDays)) {
		return ErrRangeTooLong
	}

	s.EndDate = d
	s.SelectedDate = time.Time{}
	return nil
}

// SelectDate switches to single-date mode on d. The range moves with it so
// leaving single-date mode starts from d.
func (s *Selection) SelectDate(d time.Time) {
	s.SetStartDate(d)
	s.SelectedDate = s.StartDate
}

func (s Selection) SingleDate() bool {
	return !s.SelectedDate.IsZero()
}

// FeedRange returns the bounds to request from the feed.
func (s Selection) FeedRange() (string, string) {
	start := s.StartDate.Format(consts.TimeFormat)
	if s.SingleDate() {
		return start, start
	}
	return start, s.EndDate.Format(consts.TimeFormat)
}

// ActiveDays returns the days the statistics cover: all of them in range
// mode, only the one keyed by StartDate in single-date mode.
func (s Selection) ActiveDays(days []astrodash.DaySummary) []astrodash.DaySummary {
	if !s.SingleDate() {
		return days
	}

	key := s.StartDate.Format(consts.TimeFormat)
	for _, d := range days {
		if d.Date == key {
			return []astrodash.DaySummary{d}
		}
	}
	return nil
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
