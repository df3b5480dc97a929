package http

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/sirupsen/logrus"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/render"
	"github.com/m-zajac/goportfolio/internal/site"
)

// Service manages project records and repository imports.
type Service interface {
	Records() ([]app.ProjectRecord, error)
	FetchRepos(ctx context.Context, provider app.Provider, username string, token string) ([]app.Repository, error)
	FetchedRepos() ([]app.FetchedRepository, error)
	ImportFetched(repoURL string) (app.ProjectRecord, bool, error)
	SyncAll(ctx context.Context, creds app.GitCredentials) (app.SyncResult, error)
	AddRecord(in app.ProjectInput) (app.ProjectRecord, error)
	UpdateRecord(index int, in app.ProjectInput) (app.ProjectRecord, error)
	DeleteRecord(index int) error
	AttachImage(index int, data []byte) (app.ProjectRecord, error)
	GitCredentials() (app.GitCredentials, error)
	SaveGitCredentials(creds app.GitCredentials) error
}

// Authenticator manages the admin session.
type Authenticator interface {
	Login(username string, password string) (app.Session, bool)
	IsAuthenticated(token string) bool
	Logout() error
	CurrentUser() string
	UpdateCredentials(username string, password string) error
}

// Renderer renders html views.
type Renderer interface {
	Page(w io.Writer, s site.Config, records []app.ProjectRecord) error
	Projects(records []app.ProjectRecord) (string, error)
	Dashboard(w io.Writer, data render.DashboardData) error
	Login(w io.Writer) error
}

// Subscriber provides record list updates.
type Subscriber interface {
	Subscribe() (<-chan app.RecordsUpdated, func())
}

// MuxConfig holds mux dependencies.
type MuxConfig struct {
	Service       Service
	Auth          Authenticator
	Renderer      Renderer
	Events        Subscriber
	Metrics       Metrics
	Site          site.Config
	Timeout       time.Duration
	SecureCookies bool
}

// NewMux creates router for app's http server.
func NewMux(c MuxConfig, l logrus.FieldLogger) *http.ServeMux {
	metrics := c.Metrics
	if metrics == nil {
		metrics = noopMetrics{}
	}
	timeoutMiddleware := NewTimeoutMiddleware(c.Timeout)
	authMiddleware := NewAuthMiddleware(c.Auth)

	m := http.NewServeMux()
	handle := func(pattern string, h http.HandlerFunc) {
		var handler http.Handler = timeoutMiddleware(h)
		handler = gzhttp.GzipHandler(handler)
		handler = NewMetricsMiddleware(metrics, pattern)(handler)
		m.Handle(pattern, handler)
	}
	handleAdmin := func(pattern string, h http.HandlerFunc) {
		handle(pattern, authMiddleware(h))
	}

	handle("GET /{$}", NewPageHandler(c.Service, c.Renderer, c.Site, l))
	handle("GET /api/projects", NewRecordsHandler(c.Service, l))
	handle("GET /healthz", NewHealthHandler())
	handle("POST /api/login", NewLoginHandler(c.Auth, c.SecureCookies, l))
	handleAdmin("POST /api/logout", NewLogoutHandler(c.Auth, l))

	handle("GET /admin", newAdminHandler(
		c.Auth,
		NewDashboardHandler(c.Service, c.Auth, c.Renderer, l),
		c.Renderer,
		l,
	))
	handleAdmin("GET /api/admin/projects", NewRecordsHandler(c.Service, l))
	handleAdmin("POST /api/admin/projects", NewAddRecordHandler(c.Service, l))
	handleAdmin("PUT /api/admin/projects/{index}", NewUpdateRecordHandler(c.Service, l))
	handleAdmin("DELETE /api/admin/projects/{index}", NewDeleteRecordHandler(c.Service, l))
	handleAdmin("POST /api/admin/projects/{index}/image", NewImageHandler(c.Service, l))
	handleAdmin("POST /api/admin/repos/{provider}", NewFetchReposHandler(c.Service, l))
	handleAdmin("GET /api/admin/repos", NewFetchedReposHandler(c.Service, l))
	handleAdmin("POST /api/admin/import", NewImportHandler(c.Service, l))
	handleAdmin("POST /api/admin/sync", NewSyncHandler(c.Service, l))
	handleAdmin("GET /api/admin/git-credentials", NewGitCredentialsHandler(c.Service, l))
	handleAdmin("PUT /api/admin/git-credentials", NewSaveGitCredentialsHandler(c.Service, l))
	handleAdmin("PUT /api/admin/credentials", NewAdminCredentialsHandler(c.Auth, l))
	handleAdmin("GET /api/admin/export", NewExportHandler(c.Service, c.Site, l))

	// Websocket needs the raw connection, so no gzip or timeout here.
	if c.Events != nil {
		m.Handle("GET /ws", NewLiveHandler(c.Events, c.Renderer, l))
	}
	if h := metrics.Handler(); h != nil {
		m.Handle("GET /metrics", h)
	}

	return m
}

// newAdminHandler serves dashboard to logged in admin and login form to everyone else.
func newAdminHandler(auth Authenticator, dashboard http.HandlerFunc, renderer Renderer, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookieName); err == nil && auth.IsAuthenticated(c.Value) {
			dashboard(w, r)
			return
		}

		w.Header().Set("Content-type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusUnauthorized)
		if err := renderer.Login(w); err != nil {
			l.Errorf("rendering login form: %v", err)
		}
	}
}
