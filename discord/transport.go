package discord

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/trinity-login/oauthmodel"
	"golang.org/x/oauth2"
)

// maxResponseBytes caps how much of a provider response body is read.
const maxResponseBytes = 1 << 20

// Response is a provider reply reduced to what the exchange needs.
type Response struct {
	StatusCode int
	Body       []byte
}

func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Transport sends the two kinds of request the login exchange makes.
// Implementations must be safe for concurrent use.
type Transport interface {
	// PostForm sends an application/x-www-form-urlencoded POST.
	PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error)
	// GetWithBearer sends a GET authorized with "Bearer <accessToken>".
	GetWithBearer(ctx context.Context, endpoint, accessToken string) (*Response, error)
}

// HTTPTransport is the net/http implementation of Transport.
type HTTPTransport struct {
	client *http.Client
}

var _ Transport = (*HTTPTransport)(nil)

func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{client: client}
}

func (t *HTTPTransport) PostForm(ctx context.Context, endpoint string, form url.Values) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("[HTTPTransport.PostForm] %w: %v", oauthmodel.ErrInvalidEndpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	return do(t.client, req)
}

func (t *HTTPTransport) GetWithBearer(ctx context.Context, endpoint, accessToken string) (*Response, error) {
	if accessToken == "" {
		return nil, oauthmodel.ErrEmptyAccessToken
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("[HTTPTransport.GetWithBearer] %w: %v", oauthmodel.ErrInvalidEndpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	// oauth2.Transport sets the Authorization header on a clone of req.
	bearerClient := &http.Client{
		Timeout: t.client.Timeout,
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{
				AccessToken: accessToken,
				TokenType:   oauthmodel.TokenTypeBearer,
			}),
			Base: t.client.Transport,
		},
	}
	return do(bearerClient, req)
}

func do(client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", req.URL.Path, err)
	}
	return &Response{StatusCode: resp.StatusCode, Body: body}, nil
}
