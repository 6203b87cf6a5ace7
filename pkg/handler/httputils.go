package handler

import (
	"astrodash/pkg/consts"
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// getStringParam is empty for a nil request or a missing param.
func getStringParam(r *http.Request, name string) string {

	if r == nil {
		return ""
	}

	return r.URL.Query().Get(name)
}

// feedRange fills in missing bounds: start is today, end is start plus a
// week. An unparseable start leaves end empty.
func feedRange(start, end string, now time.Time) (string, string) {

	if start == "" {
		start = now.Format(consts.TimeFormat)
	}

	if end == "" {
		t, err := time.Parse(consts.TimeFormat, start)
		if err == nil {
			end = t.AddDate(0, 0, consts.FeedRangeDays).Format(consts.TimeFormat)
		}
	}

	return start, end
}

type errorResponse struct {
	Error string `json:"error"`
}

func sendError(w http.ResponseWriter, status int, msg string) {
	sendJSON(w, status, errorResponse{Error: msg})
}

func sendJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("error while sending response %q", err)
	}
}

// relay writes an upstream body without re-encoding it.
func relay(w http.ResponseWriter, body json.RawMessage) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(body); err != nil {
		logrus.Errorf("error while relaying response %q", err)
	}
}
