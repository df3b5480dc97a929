package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsInvalidRequestError(t *testing.T) {
	stdErr := errors.New("simple error")
	assert.False(t, IsInvalidRequestError(stdErr))

	irErr := InvalidRequestError("invalid request")
	assert.True(t, IsInvalidRequestError(irErr))

	wrapperErr := fmt.Errorf("wrapping message: %w", irErr)
	assert.True(t, IsInvalidRequestError(wrapperErr))
}

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{
			name: "not found",
			err:  NotFoundError("User not found"),
			is:   IsNotFoundError,
		},
		{
			name: "rate limit",
			err:  RateLimitError("Rate limit exceeded. Please use a token."),
			is:   IsRateLimitError,
		},
		{
			name: "network",
			err:  NetworkError{Provider: ProviderGithub, StatusCode: 500},
			is:   IsNetworkError,
		},
		{
			name: "parse",
			err:  ParseError{Key: "portfolio_projects_db", Err: errors.New("bad json")},
			is:   IsParseError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.True(t, tt.is(fmt.Errorf("wrapped: %w", tt.err)))
			assert.False(t, tt.is(errors.New("other")))
		})
	}
}

func TestNetworkErrorMessage(t *testing.T) {
	assert.Equal(t, "GitHub API error: 500", NetworkError{Provider: ProviderGithub, StatusCode: 500}.Error())
	assert.Equal(t, "GitLab API error: timeout", NetworkError{Provider: ProviderGitlab, Err: errors.New("timeout")}.Error())

	cause := errors.New("connection refused")
	assert.True(t, errors.Is(NetworkError{Err: cause}, cause))
}
