package discordfake

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/jrsteele09/trinity-login/discord"
)

const (
	MethodPostForm      = "POST"
	MethodGetWithBearer = "GET"
)

// Call records one request made through the fake.
type Call struct {
	Method      string
	Endpoint    string
	Form        url.Values
	AccessToken string
}

type reply struct {
	resp *discord.Response
	err  error
}

// Transport is an in-memory discord.Transport returning canned replies.
type Transport struct {
	mu      sync.Mutex
	token   reply
	profile reply
	calls   []Call
}

var _ discord.Transport = (*Transport)(nil)

// NewTransport returns a fake that answers both endpoints with 500 until
// configured.
func NewTransport() *Transport {
	return &Transport{
		token:   reply{resp: &discord.Response{StatusCode: http.StatusInternalServerError, Body: []byte(`{}`)}},
		profile: reply{resp: &discord.Response{StatusCode: http.StatusInternalServerError, Body: []byte(`{}`)}},
	}
}

func (t *Transport) WithToken(statusCode int, body string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = reply{resp: &discord.Response{StatusCode: statusCode, Body: []byte(body)}}
	return t
}

func (t *Transport) WithTokenError(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.token = reply{err: err}
	return t
}

func (t *Transport) WithProfile(statusCode int, body string) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profile = reply{resp: &discord.Response{StatusCode: statusCode, Body: []byte(body)}}
	return t
}

func (t *Transport) WithProfileError(err error) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.profile = reply{err: err}
	return t
}

func (t *Transport) PostForm(_ context.Context, endpoint string, form url.Values) (*discord.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, Call{Method: MethodPostForm, Endpoint: endpoint, Form: form})
	return t.token.resp, t.token.err
}

func (t *Transport) GetWithBearer(_ context.Context, endpoint, accessToken string) (*discord.Response, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = append(t.calls, Call{Method: MethodGetWithBearer, Endpoint: endpoint, AccessToken: accessToken})
	return t.profile.resp, t.profile.err
}

// Calls returns a copy of every request made so far.
func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	calls := make([]Call, len(t.calls))
	copy(calls, t.calls)
	return calls
}

// CallCount returns how many requests used method.
func (t *Transport) CallCount(method string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}
