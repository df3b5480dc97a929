package main

import "time"

// Config is the container for app configuration
type Config struct {
	// HTTPServerAddress - listen address for http server
	HTTPServerAddress string `default:"0.0.0.0:8080"`

	// HTTPProfileServerAddress - listen address for profiler http server. If empty, profiler server is disabled
	HTTPProfileServerAddress string `default:""`

	// RequestTimeout - timeout for handling a single http request
	RequestTimeout time.Duration `default:"30s"`

	// SecureCookies - set Secure flag on session cookie, enable when served over https
	SecureCookies bool `default:"false"`

	// LogLevel - logrus level name
	LogLevel string `default:"info"`

	// DBPath - filepath for bolt db data
	DBPath string `default:"./portfolio.data"`

	// DBBucketName - bolt db bucket name
	DBBucketName string `default:"portfolio"`

	// SiteConfigPath - yaml file with site content. If empty, built-in content is used
	SiteConfigPath string `default:""`

	// AdminUsername - default admin login, used until credentials are changed from the dashboard
	AdminUsername string `envconfig:"ADMIN_USERNAME" default:"admin"`

	// AdminPassword - default admin password, used until credentials are changed from the dashboard
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"admin123"`

	// GithubAPIAddress - address for github rest api with protocol
	GithubAPIAddress string `default:"https://api.github.com"`

	// GitlabAPIAddress - address for gitlab rest api with protocol
	GitlabAPIAddress string `default:"https://gitlab.com/api/v4"`

	// ProviderTimeout - timeout for a single github or gitlab api call
	ProviderTimeout time.Duration `default:"15s"`

	// ProviderRateLimit - max frequency of github and gitlab api calls, per provider
	ProviderRateLimit float64 `default:"5"`

	// IconCacheSize - maximum number of memoized icon lookups
	IconCacheSize int `default:"512"`

	// SyncInterval - interval of background project sync. If 0, background sync is disabled
	SyncInterval time.Duration `default:"0"`

	// SyncTimeout - timeout for a single sync run
	SyncTimeout time.Duration `default:"1m"`

	// LiveBufferSize - number of pending page updates kept per connected client
	LiveBufferSize int `default:"8"`

	// MetricsEnabled - serve prometheus metrics on /metrics
	MetricsEnabled bool `default:"true"`
}
