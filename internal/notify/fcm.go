package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	fcmScope           = "https://www.googleapis.com/auth/firebase.messaging"
	fcmEndpointPattern = "https://fcm.googleapis.com/v1/projects/%s/messages:send"
)

type FCMOption func(*FCMClient)

// FCMClient sends messages through the Firebase Cloud Messaging HTTP v1 API.
// Requests carry short-lived OAuth2 access tokens from the token source,
// refreshed on expiry.
type FCMClient struct {
	endpoint url.URL
	tokens   oauth2.TokenSource
	base     *http.Client
	http     *http.Client
}

func NewFCMClient(endpoint string, tokens oauth2.TokenSource, opts ...FCMOption) (*FCMClient, error) {
	if tokens == nil {
		return nil, errors.New("fcm: token source is required")
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse fcm endpoint: %w", err)
	}
	c := &FCMClient{
		endpoint: *u,
		tokens:   tokens,
		base:     &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http = &http.Client{
		Timeout:   c.base.Timeout,
		Transport: &oauth2.Transport{Source: c.tokens, Base: c.base.Transport},
	}
	return c, nil
}

func WithHttpClient(httpClient *http.Client) FCMOption {
	return func(c *FCMClient) {
		c.base = httpClient
	}
}

// serviceAccount is the subset of a Google service-account key file the
// client needs beyond what the JWT config reads.
type serviceAccount struct {
	ProjectID string `json:"project_id"`
}

// NewFCMClientFromCredentials builds a client from a service-account key
// file. An empty endpoint is derived from the key's project id.
func NewFCMClientFromCredentials(credentialsFile, endpoint string, httpClient *http.Client) (*FCMClient, error) {
	key, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read fcm credentials: %w", err)
	}

	jwtCfg, err := google.JWTConfigFromJSON(key, fcmScope)
	if err != nil {
		return nil, fmt.Errorf("parse fcm credentials: %w", err)
	}

	if endpoint == "" {
		var sa serviceAccount
		if err := json.Unmarshal(key, &sa); err != nil || sa.ProjectID == "" {
			return nil, errors.New("fcm credentials have no project_id; set FCM_ENDPOINT")
		}
		endpoint = fmt.Sprintf(fcmEndpointPattern, sa.ProjectID)
	}

	// Token exchanges use the same bounded client as the sends.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	return NewFCMClient(endpoint, jwtCfg.TokenSource(tokenCtx), WithHttpClient(httpClient))
}

type fcmRequest struct {
	Message fcmMessage `json:"message"`
}

type fcmMessage struct {
	Token        string            `json:"token"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (c *FCMClient) Notify(ctx context.Context, msg Message) error {
	if msg.Token == "" {
		return fmt.Errorf("fcm: missing device token")
	}

	payload, err := json.Marshal(fcmRequest{Message: fcmMessage{
		Token:        msg.Token,
		Notification: fcmNotification{Title: msg.Title, Body: msg.Body},
		Data:         msg.Data,
	}})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fcm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fcm error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
