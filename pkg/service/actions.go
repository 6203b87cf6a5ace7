package service

import (
	"astrodash/pkg/consts"
	"context"
	"encoding/json"
)

type AstroService struct {
	client *Client
	apod   Endpoint
	feed   Endpoint
}

func NewAstroService(client *Client, apodURL, feedURL string) *AstroService {
	return &AstroService{
		client: client,
		apod:   Endpoint{Name: consts.EndpointApod, URL: apodURL},
		feed:   Endpoint{Name: consts.EndpointFeed, URL: feedURL},
	}
}

func (s *AstroService) Apod(ctx context.Context, params map[string]string) (json.RawMessage, error) {
	return s.client.Fetch(ctx, s.apod, params)
}

// NeoFeed leaves empty bounds out of the request.
func (s *AstroService) NeoFeed(ctx context.Context, start, end string) (json.RawMessage, error) {
	params := make(map[string]string, 2)
	if start != "" {
		params[consts.ParamStartDate] = start
	}
	if end != "" {
		params[consts.ParamEndDate] = end
	}
	return s.client.Fetch(ctx, s.feed, params)
}
