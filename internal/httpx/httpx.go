package httpx

import (
	"net"
	"net/http"
	"time"
)

// DefaultUserAgent is sent when neither the request nor the client sets one.
const DefaultUserAgent = "cryptobar/1.0"

// Client is a small wrapper around http.Client that fills in default headers.
// It satisfies the HTTPClient interfaces of the provider API clients.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	Headers   map[string]string
}

// New returns a client for one-shot lookups. A zero timeout leaves the
// overall request unbounded; the caller's context still applies.
func New(timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
		MaxIdleConns:          2,
		MaxIdleConnsPerHost:   1,
		ForceAttemptHTTP2:     true,
		IdleConnTimeout:       30 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout, Transport: transport},
		UserAgent: DefaultUserAgent,
		Headers:   map[string]string{"Accepts": "application/json"},
	}
}

// Do sends req, adding the default User-Agent and headers where req leaves them unset.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	for k, v := range c.Headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return c.HTTP.Do(req)
}
