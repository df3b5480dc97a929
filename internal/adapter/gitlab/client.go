package gitlab

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/m-zajac/goportfolio/internal/app"
)

// HTTPDoer can execute http request.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client returns projects of a gitlab user.
// This struct is an adapter for app.RepositoryFetcher.
type Client struct {
	doer    HTTPDoer
	address string

	usersResponseMaxSize    int
	projectsResponseMaxSize int
}

var _ app.RepositoryFetcher = &Client{}

// NewClient creates new gitlab client.
// address is the api root, eg. https://gitlab.com/api/v4.
func NewClient(doer HTTPDoer, address string) *Client {
	return &Client{
		doer:    doer,
		address: address,

		usersResponseMaxSize:    1024 * 1024,
		projectsResponseMaxSize: 1024 * 1024 * 10,
	}
}

// FetchRepos returns projects of given user, most recently active first.
//
// Token is optional. When it's set, username is first resolved to numeric user id.
func (c *Client) FetchRepos(ctx context.Context, username string, token string) ([]app.Repository, error) {
	if username == "" {
		return nil, app.InvalidRequestError("Please enter GitLab username")
	}

	userRef := username
	if token != "" {
		id, err := c.userID(ctx, username, token)
		if err != nil {
			return nil, err
		}
		if id != 0 {
			userRef = strconv.FormatInt(id, 10)
		}
	}

	u, err := url.Parse(c.address + "/users/" + url.PathEscape(userRef) + "/projects")
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}
	v := make(url.Values)
	v.Set("per_page", "100")
	v.Set("order_by", "updated_at")
	v.Set("sort", "desc")
	u.RawQuery = v.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating http request: %w", err)
	}

	body, err := c.makeRequest(ctx, req, token, c.projectsResponseMaxSize)
	if err != nil {
		return nil, err
	}

	var resp projectsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, app.NetworkError{
			Provider: app.ProviderGitlab,
			Err:      fmt.Errorf("unmarshalling response: %w", err),
		}
	}

	return resp.ToRepositories(), nil
}

// userID resolves username to numeric id. Returns 0 if user can't be resolved.
// Only missing user is reported as an error, other failures fall back to the username.
func (c *Client) userID(ctx context.Context, username string, token string) (int64, error) {
	u, err := url.Parse(c.address + "/users")
	if err != nil {
		return 0, fmt.Errorf("invalid url: %w", err)
	}
	v := make(url.Values)
	v.Set("username", username)
	u.RawQuery = v.Encode()

	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("creating http request: %w", err)
	}

	body, err := c.makeRequest(ctx, req, token, c.usersResponseMaxSize)
	if app.IsNotFoundError(err) {
		return 0, err
	}
	if err != nil {
		return 0, nil
	}

	var resp usersResponse
	if err := json.Unmarshal(body, &resp); err != nil || len(resp) == 0 {
		return 0, nil
	}

	return resp[0].ID, nil
}

func (c *Client) makeRequest(ctx context.Context, req *http.Request, token string, maxBytes int) ([]byte, error) {
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("PRIVATE-TOKEN", token)
	}

	resp, err := c.doer.Do(req.WithContext(ctx))
	if err != nil {
		return nil, app.NetworkError{
			Provider: app.ProviderGitlab,
			Err:      fmt.Errorf("doing http request: %w", err),
		}
	}
	// Always drain body before close to allow connection reuse.
	defer func() {
		_, _ = io.CopyN(ioutil.Discard, resp.Body, 1024)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, app.NotFoundError("User not found")
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, app.RateLimitError("Rate limit exceeded. Please use a token.")
	case resp.StatusCode/100 != 2:
		if checkRateLimitExceeded(resp.Header) {
			return nil, app.RateLimitError("Rate limit exceeded. Please use a token.")
		}
		return nil, app.NetworkError{Provider: app.ProviderGitlab, StatusCode: resp.StatusCode}
	}

	b, err := ioutil.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)))
	if err != nil {
		return nil, app.NetworkError{
			Provider: app.ProviderGitlab,
			Err:      fmt.Errorf("reading http response body: %w", err),
		}
	}

	return b, nil
}

func checkRateLimitExceeded(h http.Header) bool {
	if s := h.Get("RateLimit-Remaining"); s != "" {
		if limit, err := strconv.Atoi(s); err == nil && limit == 0 {
			return true
		}
	}
	return false
}
