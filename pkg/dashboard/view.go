package dashboard

import (
	"astrodash"
	"astrodash/pkg/consts"
	"astrodash/pkg/neo"
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Page is everything the dashboard renders. Feed data is either complete or
// replaced by FeedError.
type Page struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	SelectedDate string `json:"selectedDate,omitempty"`
	SingleDate   bool   `json:"singleDate"`
	Alert        string `json:"alert,omitempty"`

	Pictures     []astrodash.Picture `json:"pictures"`
	PictureError string              `json:"pictureError,omitempty"`

	Days       []astrodash.DaySummary `json:"days"`
	Chart      []Bar                  `json:"chart"`
	Statistics *astrodash.Statistics  `json:"statistics"`
	FeedError  string                 `json:"feedError,omitempty"`
}

// Bar is one column of the objects-per-day chart. Percent is relative to the busiest day.
type Bar struct {
	Date    string `json:"date"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

type View struct {
	client   *Client
	pictures *PictureCache
	now      Clock
	tmpl     *template.Template
}

func NewView(client *Client, pictures *PictureCache, now Clock) (*View, error) {
	if now == nil {
		now = time.Now
	}

	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &View{client: client, pictures: pictures, now: now, tmpl: tmpl}, nil
}

// Index renders the HTML dashboard.
func (v *View) Index(w http.ResponseWriter, r *http.Request) {
	page := v.build(r.Context(), r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := v.tmpl.ExecuteTemplate(w, "dashboard.html", page); err != nil {
		logrus.Errorf("error while rendering dashboard: %q", err)
	}
}

// Data returns the dashboard model as JSON.
func (v *View) Data(w http.ResponseWriter, r *http.Request) {
	page := v.build(r.Context(), r.URL.Query())

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(page); err != nil {
		logrus.Errorf("error while sending dashboard data: %q", err)
	}
}

func (v *View) build(ctx context.Context, q url.Values) Page {
	sel, alert := selectionFromQuery(q, v.now())

	page := Page{
		StartDate:  sel.StartDate.Format(consts.TimeFormat),
		EndDate:    sel.EndDate.Format(consts.TimeFormat),
		SingleDate: sel.SingleDate(),
	}
	if sel.SingleDate() {
		page.SelectedDate = sel.SelectedDate.Format(consts.TimeFormat)
	}
	if alert != nil {
		page.Alert = alert.Error()
	}

	if pics, err := v.loadPictures(ctx); err != nil {
		page.PictureError = err.Error()
	} else {
		page.Pictures = pics.Items()
	}

	start, end := sel.FeedRange()
	days, err := v.loadFeed(ctx, start, end)
	if err != nil {
		page.FeedError = err.Error()
		return page
	}

	page.Days = days
	page.Chart = chart(days)
	stats := neo.Extract(sel.ActiveDays(days))
	page.Statistics = &stats

	return page
}

func (v *View) loadPictures(ctx context.Context) (astrodash.PictureOfDay, error) {
	var pod astrodash.PictureOfDay

	body, err := v.pictures.Load(ctx, v.fetchPictures)
	if err != nil {
		logrus.Errorf("error while loading picture of the day: %q", err)
		return pod, err
	}

	if err := json.Unmarshal(body, &pod); err != nil {
		logrus.Errorf("error while decoding picture of the day: %q", err)
		return pod, err
	}

	return pod, nil
}

// fetchPictures only hands back bodies that decode, so nothing undecodable
// gets cached for the rest of the day.
func (v *View) fetchPictures(ctx context.Context) ([]byte, error) {
	body, err := v.client.Apod(ctx)
	if err != nil {
		return nil, err
	}

	var pod astrodash.PictureOfDay
	if err := json.Unmarshal(body, &pod); err != nil {
		logrus.Errorf("error while decoding picture of the day: %q", err)
		return nil, errPictureFetch
	}
	return body, nil
}

func (v *View) loadFeed(ctx context.Context, start, end string) ([]astrodash.DaySummary, error) {
	body, err := v.client.NeoFeed(ctx, start, end)
	if err != nil {
		logrus.Errorf("error while loading neo feed: %q", err)
		return nil, err
	}

	return neo.Process(body)
}

// selectionFromQuery replays the form inputs onto a fresh selection. The
// returned error is the alert for a rejected end date.
//
// The form always submits both bounds. When the start differs from the one the
// form was rendered with, the start was edited and the submitted end is stale,
// so it is dropped in favour of the recomputed one.
func selectionFromQuery(q url.Values, today time.Time) (Selection, error) {
	sel := NewSelection(today)

	start := getTimeParam(q, consts.ParamStartDate)
	if !start.IsZero() {
		sel.SetStartDate(start)
	}

	prev := getTimeParam(q, consts.ParamPrevStartDate)
	startEdited := !prev.IsZero() && !start.IsZero() && !start.Equal(prev)

	var alert error
	if end := getTimeParam(q, consts.ParamEndDate); !startEdited && !end.IsZero() && !end.Equal(sel.EndDate) {
		alert = sel.SetEndDate(end)
	}

	if date := getTimeParam(q, consts.ParamDate); !date.IsZero() {
		sel.SelectDate(date)
	}

	return sel, alert
}

// getTimeParam returns the zero time for absent or malformed dates.
func getTimeParam(q url.Values, name string) time.Time {
	t, err := time.Parse(consts.TimeFormat, q.Get(name))
	if err != nil {
		return time.Time{}
	}
	return t
}

func chart(days []astrodash.DaySummary) []Bar {
	most := 0
	for _, d := range days {
		if d.TotalObjects > most {
			most = d.TotalObjects
		}
	}

	bars := make([]Bar, 0, len(days))
	for _, d := range days {
		b := Bar{Date: d.Date, Count: d.TotalObjects}
		if most > 0 {
			b.Percent = d.TotalObjects * 100 / most
		}
		bars = append(bars, b)
	}
	return bars
}
