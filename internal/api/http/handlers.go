package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/render"
	"github.com/m-zajac/goportfolio/internal/site"
)

// maxBodySize limits JSON request bodies.
const maxBodySize = 1 << 20

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Username string `json:"username"`
}

type fetchRequest struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

type importRequest struct {
	RepoURL string `json:"repoUrl"`
}

type importResponse struct {
	Record app.ProjectRecord `json:"record"`
	Added  bool              `json:"added"`
}

type syncResponse struct {
	Updated  int               `json:"updated"`
	Total    int               `json:"total"`
	Failures map[string]string `json:"failures"`
}

func newSyncResponse(result app.SyncResult) syncResponse {
	failures := make(map[string]string, len(result.Failures))
	for provider, err := range result.Failures {
		failures[string(provider)] = errorMessage(err)
	}

	return syncResponse{
		Updated:  result.Updated,
		Total:    result.TotalFetched,
		Failures: failures,
	}
}

// NewPageHandler creates handlerfunc rendering the public portfolio page.
func NewPageHandler(service Service, renderer Renderer, siteConfig site.Config, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := service.Records()
		if err != nil {
			writeError(w, err, l)
			return
		}

		w.Header().Set("Content-type", "text/html; charset=utf-8")
		if err := renderer.Page(w, siteConfig, records); err != nil {
			l.Errorf("rendering page: %v", err)
		}
	}
}

// NewRecordsHandler creates handlerfunc returning the record list.
func NewRecordsHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := service.Records()
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, records)
	}
}

// NewHealthHandler creates liveness handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	}
}

// NewLoginHandler creates handlerfunc starting admin session.
func NewLoginHandler(auth Authenticator, secureCookie bool, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		session, ok := auth.Login(req.Username, req.Password)
		if !ok {
			http.Error(w, "Invalid username or password", http.StatusUnauthorized)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    session.Token,
			Path:     "/",
			MaxAge:   int(app.SessionDuration / time.Second),
			HttpOnly: true,
			Secure:   secureCookie,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, loginResponse{Username: session.Username})
	}
}

// NewLogoutHandler creates handlerfunc ending admin session.
func NewLogoutHandler(auth Authenticator, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := auth.Logout(); err != nil {
			writeError(w, err, l)
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// NewDashboardHandler creates handlerfunc rendering the admin dashboard.
func NewDashboardHandler(service Service, auth Authenticator, renderer Renderer, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := service.Records()
		if err != nil {
			writeError(w, err, l)
			return
		}
		repos, err := service.FetchedRepos()
		if err != nil {
			writeError(w, err, l)
			return
		}
		creds, err := service.GitCredentials()
		if err != nil {
			writeError(w, err, l)
			return
		}

		w.Header().Set("Content-type", "text/html; charset=utf-8")
		err = renderer.Dashboard(w, render.DashboardData{
			Username:       auth.CurrentUser(),
			Records:        records,
			Repos:          repos,
			GitCredentials: creds,
		})
		if err != nil {
			l.Errorf("rendering dashboard: %v", err)
		}
	}
}

// NewAddRecordHandler creates handlerfunc adding a project from the dashboard form.
func NewAddRecordHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in app.ProjectInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, l)
			return
		}

		record, err := service.AddRecord(in)
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusCreated, record)
	}
}

// NewUpdateRecordHandler creates handlerfunc replacing project at {index}.
func NewUpdateRecordHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := getIndex(r)
		if err != nil {
			writeError(w, err, l)
			return
		}
		var in app.ProjectInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, err, l)
			return
		}

		record, err := service.UpdateRecord(index, in)
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

// NewDeleteRecordHandler creates handlerfunc removing project at {index}.
func NewDeleteRecordHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		index, err := getIndex(r)
		if err != nil {
			writeError(w, err, l)
			return
		}

		if err := service.DeleteRecord(index); err != nil {
			writeError(w, err, l)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewImageHandler creates handlerfunc attaching uploaded image to project at {index}.
func NewImageHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	tooBig := app.InvalidRequestError("Image size must be less than 5MB")

	return func(w http.ResponseWriter, r *http.Request) {
		index, err := getIndex(r)
		if err != nil {
			writeError(w, err, l)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, app.MaxImageSize+maxBodySize)
		file, _, err := r.FormFile("image")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				writeError(w, tooBig, l)
				return
			}
			writeError(w, app.InvalidRequestError("Please select an image"), l)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, app.MaxImageSize+1))
		if err != nil {
			writeError(w, fmt.Errorf("reading image: %w", err), l)
			return
		}

		record, err := service.AttachImage(index, data)
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

// NewFetchReposHandler creates handlerfunc fetching repositories from {provider}.
func NewFetchReposHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req fetchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		provider := app.Provider(r.PathValue("provider"))
		repos, err := service.FetchRepos(r.Context(), provider, req.Username, req.Token)
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, repos)
	}
}

// NewFetchedReposHandler creates handlerfunc returning repositories from the last fetch.
func NewFetchedReposHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		repos, err := service.FetchedRepos()
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, repos)
	}
}

// NewImportHandler creates handlerfunc importing a fetched repository.
func NewImportHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		record, added, err := service.ImportFetched(req.RepoURL)
		if err != nil {
			writeError(w, err, l)
			return
		}

		status := http.StatusOK
		if added {
			status = http.StatusCreated
		}
		writeJSON(w, status, importResponse{Record: record, Added: added})
	}
}

// NewSyncHandler creates handlerfunc syncing linked projects with saved git credentials.
func NewSyncHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := service.GitCredentials()
		if err != nil {
			writeError(w, err, l)
			return
		}

		result, err := service.SyncAll(r.Context(), creds)
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, newSyncResponse(result))
	}
}

// NewGitCredentialsHandler creates handlerfunc returning saved git credentials.
func NewGitCredentialsHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		creds, err := service.GitCredentials()
		if err != nil {
			writeError(w, err, l)
			return
		}

		writeJSON(w, http.StatusOK, creds)
	}
}

// NewSaveGitCredentialsHandler creates handlerfunc saving git credentials.
func NewSaveGitCredentialsHandler(service Service, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var creds app.GitCredentials
		if err := decodeJSON(r, &creds); err != nil {
			writeError(w, err, l)
			return
		}

		if err := service.SaveGitCredentials(creds); err != nil {
			writeError(w, err, l)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewAdminCredentialsHandler creates handlerfunc replacing admin login credentials.
func NewAdminCredentialsHandler(auth Authenticator, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		if err := auth.UpdateCredentials(req.Username, req.Password); err != nil {
			writeError(w, err, l)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// NewExportHandler creates handlerfunc returning site config with current projects as YAML.
func NewExportHandler(service Service, siteConfig site.Config, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := service.Records()
		if err != nil {
			writeError(w, err, l)
			return
		}

		data, err := site.Export(siteConfig, records)
		if err != nil {
			writeError(w, err, l)
			return
		}

		w.Header().Set("Content-type", "application/yaml; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="site.yaml"`)
		_, _ = w.Write(data)
	}
}

func getIndex(r *http.Request) (int, error) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		return 0, app.InvalidRequestError("Invalid project index")
	}

	return index, nil
}

func decodeJSON(r *http.Request, v interface{}) error {
	body := io.LimitReader(r.Body, maxBodySize)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return app.InvalidRequestError("Invalid request body")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error kind to response status. Body is the message shown to the user.
func writeError(w http.ResponseWriter, err error, l logrus.FieldLogger) {
	switch {
	case app.IsInvalidRequestError(err):
		http.Error(w, errorMessage(err), http.StatusBadRequest)
	case app.IsNotFoundError(err):
		http.Error(w, errorMessage(err), http.StatusNotFound)
	case app.IsRateLimitError(err):
		http.Error(w, errorMessage(err), http.StatusTooManyRequests)
	case app.IsNetworkError(err):
		l.Warnf("provider request failed: %v", err)
		http.Error(w, errorMessage(err), http.StatusBadGateway)
	default:
		l.Errorf("request failed: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// errorMessage returns message of the typed error inside err, without wrapping context.
func errorMessage(err error) string {
	var (
		invalid   app.InvalidRequestError
		notFound  app.NotFoundError
		rateLimit app.RateLimitError
		network   app.NetworkError
	)
	switch {
	case errors.As(err, &invalid):
		return invalid.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &rateLimit):
		return rateLimit.Error()
	case errors.As(err, &network):
		return network.Error()
	}

	return err.Error()
}
