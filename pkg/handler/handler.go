package handler

import (
	"astrodash/pkg/consts"
	"astrodash/pkg/dashboard"
	srvc "astrodash/pkg/service"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	services    *srvc.Service
	dashboard   *dashboard.View
	corsOrigins []string
	now         func() time.Time
}

// NewHandler wires the proxy routes; view may be nil to serve the API only.
func NewHandler(services *srvc.Service, view *dashboard.View, corsOrigins []string) *Handler {
	return &Handler{
		services:    services,
		dashboard:   view,
		corsOrigins: corsOrigins,
		now:         time.Now,
	}
}

func (h *Handler) InitRoutes() http.Handler {

	router := mux.NewRouter()

	// the two proxy endpoints relay NASA responses as they are
	router.HandleFunc("/api/apod", h.Apod).Methods(http.MethodGet)
	router.HandleFunc("/api/neofeed", h.NeoFeed).Methods(http.MethodGet)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	if h.dashboard != nil {
		router.HandleFunc("/", h.dashboard.Index).Methods(http.MethodGet)
		router.HandleFunc("/dashboard/data", h.dashboard.Data).Methods(http.MethodGet)
	}

	return withCORS(h.corsOrigins)(logRequests(router, withRecovery(router)))
}

// Apod forwards the optional upstream params that are present.
func (h *Handler) Apod(w http.ResponseWriter, r *http.Request) {

	params := make(map[string]string)
	for _, name := range []string{consts.ParamDate, consts.ParamStartDate, consts.ParamEndDate, consts.ParamCount, consts.ParamThumbs} {
		if v := getStringParam(r, name); v != "" {
			params[name] = v
		}
	}

	body, err := h.services.Apod(r.Context(), params)
	if err != nil {
		logrus.Errorf("Error while fetching picture of the day: %q", err)
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	relay(w, body)
}

// NeoFeed defaults the range to a week starting today. Dates are not
// validated, upstream errors come back as they are.
func (h *Handler) NeoFeed(w http.ResponseWriter, r *http.Request) {

	start, end := feedRange(getStringParam(r, consts.ParamStartDate), getStringParam(r, consts.ParamEndDate), h.now())

	body, err := h.services.NeoFeed(r.Context(), start, end)
	if err != nil {
		logrus.Errorf("Error while fetching neo feed %s..%s: %q", start, end, err)
		sendError(w, http.StatusInternalServerError, err.Error())
		return
	}

	relay(w, body)
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
