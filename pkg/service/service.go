package service

import (
	"context"
	"encoding/json"
)

type Astro interface {
	Apod(ctx context.Context, params map[string]string) (json.RawMessage, error)
	NeoFeed(ctx context.Context, start, end string) (json.RawMessage, error)
}

type Service struct {
	Astro
}

func NewService(client *Client, apodURL, feedURL string) *Service {
	return &Service{
		Astro: NewAstroService(client, apodURL, feedURL),
	}
}
