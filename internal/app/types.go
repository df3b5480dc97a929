package app

import "time"

// Provider is a supported repository hosting service.
type Provider string

// Supported providers.
const (
	ProviderGithub Provider = "github"
	ProviderGitlab Provider = "gitlab"
)

// Title returns provider's display name.
func (p Provider) Title() string {
	switch p {
	case ProviderGithub:
		return "GitHub"
	case ProviderGitlab:
		return "GitLab"
	}
	return string(p)
}

// ProjectRecord is a single entry of the portfolio's project list.
// Empty Image, RepoURL and Source mean "not set".
type ProjectRecord struct {
	Number      string   `json:"number" yaml:"number"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Tags        []string `json:"tags" yaml:"tags"`
	Link        string   `json:"link" yaml:"link"`
	Image       string   `json:"image,omitempty" yaml:"image,omitempty"`
	RepoURL     string   `json:"repoUrl,omitempty" yaml:"repoUrl,omitempty"`
	Source      Provider `json:"source,omitempty" yaml:"source,omitempty"`
	Stars       *int     `json:"stars,omitempty" yaml:"stars,omitempty"`
	Forks       *int     `json:"forks,omitempty" yaml:"forks,omitempty"`
}

// Repository is a normalized repository returned by any provider.
type Repository struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	FullName    string    `json:"fullName"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Homepage    string    `json:"homepage,omitempty"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Updated     time.Time `json:"updated"`
	Source      Provider  `json:"source"`
}

// FetchedRepository is a repository from the last fetch, marked if it's already in the record list.
type FetchedRepository struct {
	Repository
	Imported bool `json:"imported"`
}

// Session is the single admin session.
type Session struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	// Timestamp is the login time in epoch milliseconds.
	Timestamp int64  `json:"timestamp"`
	Token     string `json:"token"`
}

// GitCredentials holds usernames and tokens used for fetching repositories.
type GitCredentials struct {
	GithubUsername string `json:"githubUsername"`
	GithubToken    string `json:"githubToken"`
	GitlabUsername string `json:"gitlabUsername"`
	GitlabToken    string `json:"gitlabToken"`
}

// AdminCredentials are the credentials accepted by Login.
type AdminCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RecordsUpdated is published after every persisted change of the record list.
type RecordsUpdated struct {
	Records []ProjectRecord
}

// SyncResult summarizes SyncAll.
type SyncResult struct {
	Updated      int                `json:"updated"`
	TotalFetched int                `json:"total"`
	Failures     map[Provider]error `json:"-"`
}
