package httpclients

import (
	"resty.dev/v3"
)

// NewClient builds a resty client with no overall timeout; callers bound requests with their context.
func NewClient(name string) *resty.Client {
	return resty.New().
		SetHeader("User-Agent", "chat-relay/"+name)
}
