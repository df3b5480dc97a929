// Package render builds the portfolio page and the admin dashboard html.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/site"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Max number of repository topics shown on a dashboard card.
const maxRepoTopics = 5

// IconLookup returns icon url for technology name, or empty string.
type IconLookup interface {
	Icon(tech string) string
}

// Renderer executes html templates.
// It's safe for concurrent use.
type Renderer struct {
	tmpl  *template.Template
	icons IconLookup
}

// DashboardData is everything shown on the dashboard.
type DashboardData struct {
	Username       string
	Records        []app.ProjectRecord
	Repos          []app.FetchedRepository
	GitCredentials app.GitCredentials
}

// New parses embedded templates.
func New(icons IconLookup) (*Renderer, error) {
	r := &Renderer{icons: icons}

	tmpl, err := template.New("").Funcs(template.FuncMap{
		"icon":     r.icon,
		"imageSrc": imageSrc,
		"repoTech": repoTech,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	r.tmpl = tmpl

	return r, nil
}

type pageData struct {
	Site     site.Config
	Records  []app.ProjectRecord
	Personal site.Personal
}

// Page writes the whole public page.
func (r *Renderer) Page(w io.Writer, s site.Config, records []app.ProjectRecord) error {
	return r.tmpl.ExecuteTemplate(w, "page.html", pageData{
		Site:     s,
		Records:  records,
		Personal: s.Personal,
	})
}

// Projects returns the project grid content only.
func (r *Renderer) Projects(records []app.ProjectRecord) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "projects", records); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Dashboard writes the admin dashboard.
func (r *Renderer) Dashboard(w io.Writer, data DashboardData) error {
	return r.tmpl.ExecuteTemplate(w, "dashboard.html", data)
}

// Login writes the admin login form.
func (r *Renderer) Login(w io.Writer) error {
	return r.tmpl.ExecuteTemplate(w, "login.html", nil)
}

func (r *Renderer) icon(tech string) string {
	if r.icons == nil {
		return ""
	}
	return r.icons.Icon(tech)
}

// imageSrc passes embedded images through the template url filter, which would reject data uris.
func imageSrc(s string) interface{} {
	if strings.HasPrefix(s, "data:image/") && !strings.HasPrefix(s, "data:image/svg") {
		return template.URL(s)
	}
	return s
}

func repoTech(repo app.Repository) []string {
	var tech []string
	if repo.Language != "" {
		tech = append(tech, repo.Language)
	}
	topics := repo.Topics
	if len(topics) > maxRepoTopics {
		topics = topics[:maxRepoTopics]
	}
	return append(tech, topics...)
}
