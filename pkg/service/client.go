package service

import (
	"astrodash/pkg/consts"
	"astrodash/pkg/metrics"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the NASA API. One call is one GET, there is no retry and no caching.
type Client struct {
	hc     *http.Client
	apiKey string
}

// NewClient uses http.DefaultClient when hc is nil.
func NewClient(hc *http.Client, apiKey string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{hc: hc, apiKey: apiKey}
}

// Endpoint identifies one upstream resource. Name labels logs and metrics.
type Endpoint struct {
	Name string
	URL  string
}

// Fetch requests the endpoint with params and the api key and returns the body unchanged.
func (c *Client) Fetch(ctx context.Context, ep Endpoint, params map[string]string) (json.RawMessage, error) {

	q := make(map[string]string, len(params)+1)
	for k, v := range params {
		q[k] = v
	}
	q[consts.ApiKey] = c.apiKey

	u, err := makeRequest(ep.URL, q)
	if err != nil {
		return nil, err
	}

	label := ep.Name
	safeURL := redactKey(u)

	start := time.Now()
	defer func() {
		metrics.UpstreamDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
	}()

	body, status, err := c.get(ctx, u)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(label, metrics.OutcomeTransport).Inc()
		logrus.WithField("url", safeURL).Errorf("upstream request failed: %q", err)
		return nil, fmt.Errorf("request %s: %w", safeURL, unwrapURLError(err))
	}

	logrus.WithFields(logrus.Fields{
		"url":      safeURL,
		"status":   status,
		"duration": time.Since(start).String(),
	}).Info("upstream response")

	if status < 200 || status > 299 {
		metrics.UpstreamRequests.WithLabelValues(label, metrics.OutcomeStatus).Inc()
		return nil, upstreamError(status, safeURL, body)
	}

	if !json.Valid(body) {
		metrics.UpstreamRequests.WithLabelValues(label, metrics.OutcomeDecode).Inc()
		return nil, fmt.Errorf("invalid JSON in response from %s", safeURL)
	}

	metrics.UpstreamRequests.WithLabelValues(label, metrics.OutcomeOK).Inc()
	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, err
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, err
	}

	return body, resp.StatusCode, nil
}

// upstreamError prefers the API's own error_message over a generic one.
func upstreamError(status int, safeURL string, body []byte) *UpstreamError {
	e := &UpstreamError{Status: status, URL: safeURL, Message: genericUpstreamMessage(safeURL)}

	var parsed upstreamErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.ErrorMessage != "" {
		e.Message = parsed.ErrorMessage
	}

	return e
}

// makeRequest builds the request URL, params override any query already in baseUrl.
func makeRequest(baseUrl string, params map[string]string) (string, error) {
	ur, err := url.Parse(baseUrl)
	if err != nil {
		return "", err
	}

	q := ur.Query()
	for k, v := range params {
		q.Set(k, v)
	}

	ur.RawQuery = q.Encode()
	return ur.String(), nil
}

// redactKey hides the api key so URLs can be logged and returned to callers.
func redactKey(u string) string {
	ur, err := url.Parse(u)
	if err != nil {
		return u
	}

	q := ur.Query()
	if q.Get(consts.ApiKey) == "" {
		return u
	}
	q.Set(consts.ApiKey, "REDACTED")

	ur.RawQuery = q.Encode()
	return ur.String()
}

// unwrapURLError drops the *url.Error wrapper, which repeats the unredacted URL.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}
