package main

import (
	"fmt"
	netHttp "net/http"

	"github.com/sirupsen/logrus"

	"github.com/m-zajac/goportfolio/internal/adapter/github"
	"github.com/m-zajac/goportfolio/internal/adapter/gitlab"
	"github.com/m-zajac/goportfolio/internal/adapter/limiter"
	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/database"
	"github.com/m-zajac/goportfolio/internal/events"
	"github.com/m-zajac/goportfolio/internal/site"
	"github.com/m-zajac/goportfolio/internal/storage"
)

// components are the parts shared by all commands.
type components struct {
	site    site.Config
	kvStore *database.BoltKVStore
	service *app.Service
	auth    *app.Authenticator
	hub     *events.Hub
}

func newComponents(conf Config, l *logrus.Logger) (*components, error) {
	siteConfig, err := site.Load(conf.SiteConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading site config: %w", err)
	}

	kvStore, err := database.NewBoltKVStore(conf.DBPath, conf.DBBucketName)
	if err != nil {
		return nil, fmt.Errorf("creating bolt kv store: %w", err)
	}

	githubClient, err := github.NewClient(
		newProviderHTTPClient(conf),
		conf.GithubAPIAddress,
	)
	if err != nil {
		kvStore.Close()
		return nil, fmt.Errorf("creating github client: %w", err)
	}
	gitlabClient := gitlab.NewClient(
		newProviderHTTPClient(conf),
		conf.GitlabAPIAddress,
	)

	hub := events.NewHub(conf.LiveBufferSize, l.WithField("component", "hub"))

	storageLogger := l.WithField("component", "storage")
	service := app.NewService(
		map[app.Provider]app.RepositoryFetcher{
			app.ProviderGithub: githubClient,
			app.ProviderGitlab: gitlabClient,
		},
		storage.NewRecordStore(kvStore, siteConfig.Projects, storageLogger),
		storage.NewGitCredentialStore(kvStore, storageLogger),
		hub,
		l.WithField("component", "service"),
	)

	auth := app.NewAuthenticator(
		storage.NewSessionStore(kvStore, storageLogger),
		storage.NewAdminCredentialStore(kvStore, storageLogger),
		app.AdminCredentials{
			Username: conf.AdminUsername,
			Password: conf.AdminPassword,
		},
		l.WithField("component", "auth"),
	)

	return &components{
		site:    siteConfig,
		kvStore: kvStore,
		service: service,
		auth:    auth,
		hub:     hub,
	}, nil
}

func (c *components) Close() {
	c.kvStore.Close()
}

// newProviderHTTPClient creates rate limited client. Every provider gets its own limiter.
func newProviderHTTPClient(conf Config) *netHttp.Client {
	return &netHttp.Client{
		Timeout:   conf.ProviderTimeout,
		Transport: limiter.NewTransport(nil, conf.ProviderRateLimit),
	}
}
