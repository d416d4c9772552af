package client

// Client talks to a running report API.
type Client struct {
	Transport *Transport
	Reports   *ReportsEndpoint
}

func NewClient(baseURL string, token string) *Client {
	t := NewTransport(baseURL, token)
	return &Client{
		Transport: t,
		Reports:   &ReportsEndpoint{transport: t},
	}
}
