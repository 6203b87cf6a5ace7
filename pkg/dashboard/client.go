package dashboard

import (
	"astrodash/pkg/consts"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Client reads the proxy's own API the way the browser dashboard did.
type Client struct {
	hc      *http.Client
	baseURL string
}

func NewClient(hc *http.Client, baseURL string) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{hc: hc, baseURL: strings.TrimRight(baseURL, "/")}
}

// errPictureFetch is the message shown whenever the picture of the day cannot be loaded.
var errPictureFetch = errors.New("Failed to fetch data")

func (c *Client) Apod(ctx context.Context) ([]byte, error) {
	body, ok, err := c.get(ctx, "/api/apod", nil)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errPictureFetch
	}
	return body, nil
}

func (c *Client) NeoFeed(ctx context.Context, start, end string) ([]byte, error) {
	q := url.Values{}
	q.Set(consts.ParamStartDate, start)
	q.Set(consts.ParamEndDate, end)

	body, ok, err := c.get(ctx, "/api/neofeed", q)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("Error fetching neo feed data. Error returned from the API call:%s", bytes.TrimSpace(body))
	}
	return body, nil
}

// get reports ok=false with the body for non-2xx answers.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, bool, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, err
	}

	return body, resp.StatusCode >= 200 && resp.StatusCode <= 299, nil
}
