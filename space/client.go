package space

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Default upstream endpoints.
const (
	DefaultISSURL    = "http://api.open-notify.org/iss-now.json"
	DefaultLaunchURL = "https://api.spacexdata.com/v5/launches/next"
	DefaultAPODURL   = "https://api.nasa.gov/planetary/apod"
	DefaultAPIKey    = "DEMO_KEY"
)

const maxBodySize = 1 << 20

// ErrMalformed is returned for payloads missing the fields the panel needs.
var ErrMalformed = errors.New("space: malformed payload")

// Client calls the upstream space APIs. It never retries.
type Client struct {
	http      *http.Client
	issURL    string
	launchURL string
	apodURL   string
	apiKey    string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default 10s-timeout client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithEndpoints overrides upstream URLs. Empty values keep the defaults.
func WithEndpoints(iss, launch, apod string) ClientOption {
	return func(c *Client) {
		if iss != "" {
			c.issURL = iss
		}
		if launch != "" {
			c.launchURL = launch
		}
		if apod != "" {
			c.apodURL = apod
		}
	}
}

// WithAPIKey sets the NASA API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		if key != "" {
			c.apiKey = key
		}
	}
}

// NewClient creates a Client with the public endpoints and NASA's demo key.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		http:      &http.Client{Timeout: 10 * time.Second},
		issURL:    DefaultISSURL,
		launchURL: DefaultLaunchURL,
		apodURL:   DefaultAPODURL,
		apiKey:    DefaultAPIKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	return body, nil
}

// ISS returns the current ISS position.
func (c *Client) ISS(ctx context.Context) (ISSPosition, error) {
	body, err := c.get(ctx, c.issURL)
	if err != nil {
		return ISSPosition{}, fmt.Errorf("iss: %w", err)
	}
	var payload struct {
		Message     string `json:"message"`
		Timestamp   int64  `json:"timestamp"`
		ISSPosition struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"iss_position"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ISSPosition{}, fmt.Errorf("iss: %w: %v", ErrMalformed, err)
	}
	if payload.Message != "success" {
		return ISSPosition{}, fmt.Errorf("iss: %w: message %q", ErrMalformed, payload.Message)
	}
	lat, err := strconv.ParseFloat(payload.ISSPosition.Latitude, 64)
	if err != nil {
		return ISSPosition{}, fmt.Errorf("iss: %w: latitude: %v", ErrMalformed, err)
	}
	lon, err := strconv.ParseFloat(payload.ISSPosition.Longitude, 64)
	if err != nil {
		return ISSPosition{}, fmt.Errorf("iss: %w: longitude: %v", ErrMalformed, err)
	}
	return ISSPosition{Latitude: lat, Longitude: lon, Timestamp: time.Unix(payload.Timestamp, 0).UTC()}, nil
}

// NextLaunch returns the raw SpaceX "next launch" document.
func (c *Client) NextLaunch(ctx context.Context) (json.RawMessage, error) {
	body, err := c.get(ctx, c.launchURL)
	if err != nil {
		return nil, fmt.Errorf("launch: %w", err)
	}
	if _, err := decodeLaunch(body); err != nil {
		return nil, fmt.Errorf("launch: %w", err)
	}
	return json.RawMessage(body), nil
}

// APOD returns the raw astronomy-picture-of-the-day document.
func (c *Client) APOD(ctx context.Context) (json.RawMessage, error) {
	u, err := url.Parse(c.apodURL)
	if err != nil {
		return nil, fmt.Errorf("apod: %w", err)
	}
	q := u.Query()
	q.Set("api_key", c.apiKey)
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, fmt.Errorf("apod: %w", err)
	}
	if _, err := decodeAPOD(body); err != nil {
		return nil, fmt.Errorf("apod: %w", err)
	}
	return json.RawMessage(body), nil
}

func decodeLaunch(raw []byte) (Launch, error) {
	var l Launch
	if err := json.Unmarshal(raw, &l); err != nil {
		return Launch{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if l.Name == "" && l.DateUnix == 0 {
		return Launch{}, fmt.Errorf("%w: no name or date", ErrMalformed)
	}
	return l, nil
}

func decodeAPOD(raw []byte) (APOD, error) {
	var a APOD
	if err := json.Unmarshal(raw, &a); err != nil {
		return APOD{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if a.Title == "" && a.URL == "" {
		return APOD{}, fmt.Errorf("%w: no title or url", ErrMalformed)
	}
	return a, nil
}
