// Package site holds the static content of the portfolio page.
package site

import (
	_ "embed"
	"fmt"
	"io/ioutil"

	"github.com/m-zajac/goportfolio/internal/app"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultConfig []byte

// Config is the page content. Projects are the seed list used until anything is stored.
type Config struct {
	Personal     Personal            `yaml:"personal"`
	Services     Section             `yaml:"services"`
	Technologies Section             `yaml:"technologies"`
	Projects     []app.ProjectRecord `yaml:"projects"`
	Social       Social              `yaml:"social"`
	Meta         Meta                `yaml:"meta"`
	Theme        Theme               `yaml:"theme"`
}

// Personal describes the portfolio owner.
type Personal struct {
	Name     string   `yaml:"name"`
	Title    string   `yaml:"title"`
	Location string   `yaml:"location"`
	Email    string   `yaml:"email"`
	Bio      []string `yaml:"bio"`
}

// Section is a titled list, eg. services.
type Section struct {
	Title string   `yaml:"title"`
	Items []string `yaml:"items"`
}

// Social holds profile urls. Empty ones are not rendered.
type Social struct {
	Instagram string `yaml:"instagram,omitempty"`
	Linkedin  string `yaml:"linkedin,omitempty"`
	Github    string `yaml:"github,omitempty"`
	Twitter   string `yaml:"twitter,omitempty"`
	Behance   string `yaml:"behance,omitempty"`
	Dribbble  string `yaml:"dribbble,omitempty"`
}

// SocialLink is a single named profile url.
type SocialLink struct {
	Name string
	URL  string
}

// Links returns non empty links in display order.
func (s Social) Links() []SocialLink {
	all := []SocialLink{
		{Name: "instagram", URL: s.Instagram},
		{Name: "linkedin", URL: s.Linkedin},
		{Name: "github", URL: s.Github},
		{Name: "twitter", URL: s.Twitter},
		{Name: "behance", URL: s.Behance},
		{Name: "dribbble", URL: s.Dribbble},
	}

	links := make([]SocialLink, 0, len(all))
	for _, l := range all {
		if l.URL != "" {
			links = append(links, l)
		}
	}
	return links
}

// Meta is the page's head information.
type Meta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Keywords    string `yaml:"keywords,omitempty"`
	Author      string `yaml:"author,omitempty"`
	OGImage     string `yaml:"ogImage,omitempty"`
}

// Theme holds page colors.
type Theme struct {
	BgColor     string `yaml:"bgColor,omitempty"`
	TextColor   string `yaml:"textColor,omitempty"`
	TextMuted   string `yaml:"textMuted,omitempty"`
	AccentColor string `yaml:"accentColor,omitempty"`
	BorderColor string `yaml:"borderColor,omitempty"`
}

// Default returns built-in content.
func Default() Config {
	c, err := Parse(defaultConfig)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded site config: %v", err))
	}
	return c
}

// Load reads content from yaml file. Empty path means built-in content.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading site config: %w", err)
	}
	return Parse(data)
}

// Parse decodes yaml content.
func Parse(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("parsing site config: %w", err)
	}
	return c, nil
}

// Export returns content as yaml, with projects replaced by given records.
func Export(c Config, records []app.ProjectRecord) ([]byte, error) {
	c.Projects = records
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshalling site config: %w", err)
	}
	return data, nil
}
