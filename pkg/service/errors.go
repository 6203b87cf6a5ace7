package service

import "fmt"

// UpstreamError is returned when the NASA API answers with a non-2xx status.
type UpstreamError struct {
	Status  int
	Message string
	URL     string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// upstreamErrorBody is the error shape of the NEO endpoints.
type upstreamErrorBody struct {
	ErrorMessage string `json:"error_message"`
}

func genericUpstreamMessage(u string) string {
	return fmt.Sprintf("failed to fetch data from %s", u)
}
