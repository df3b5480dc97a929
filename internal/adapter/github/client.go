package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v68/github"
	"github.com/m-zajac/goportfolio/internal/app"
	"golang.org/x/oauth2"
)

const reposPerPage = 100

// Client returns public repositories of a github user.
// This struct is an adapter for app.RepositoryFetcher.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
}

var _ app.RepositoryFetcher = &Client{}

// NewClient creates new github client.
// httpClient is used for all requests, address is the api root, eg. https://api.github.com.
func NewClient(httpClient *http.Client, address string) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if !strings.HasSuffix(address, "/") {
		address += "/"
	}
	u, err := url.Parse(address)
	if err != nil {
		return nil, fmt.Errorf("invalid github address: %w", err)
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    u,
	}, nil
}

// FetchRepos returns repositories of given user, most recently updated first.
// Token is optional. Without it, github's anonymous rate limit applies.
func (c *Client) FetchRepos(ctx context.Context, username string, token string) ([]app.Repository, error) {
	if username == "" {
		return nil, app.InvalidRequestError("Please enter GitHub username")
	}

	opts := &github.RepositoryListByUserOptions{
		Sort: "updated",
		ListOptions: github.ListOptions{
			PerPage: reposPerPage,
		},
	}
	repos, resp, err := c.newGithubClient(ctx, token).Repositories.ListByUser(ctx, username, opts)
	if err != nil {
		return nil, mapError(resp, err)
	}

	return toRepositories(repos), nil
}

func (c *Client) newGithubClient(ctx context.Context, token string) *github.Client {
	httpClient := c.httpClient
	if token != "" {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	}

	gh := github.NewClient(httpClient)
	gh.BaseURL = c.baseURL

	return gh
}

func mapError(resp *github.Response, err error) error {
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return app.RateLimitError("Rate limit exceeded. Please use a token.")
	}

	if resp == nil || resp.Response == nil {
		return app.NetworkError{Provider: app.ProviderGithub, Err: err}
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return app.NotFoundError("User not found")
	case http.StatusForbidden:
		return app.RateLimitError("Rate limit exceeded. Please use a token.")
	}
	if resp.StatusCode/100 != 2 {
		return app.NetworkError{Provider: app.ProviderGithub, StatusCode: resp.StatusCode, Err: err}
	}

	// 2xx with an error means the body couldn't be decoded.
	return app.NetworkError{Provider: app.ProviderGithub, Err: err}
}
