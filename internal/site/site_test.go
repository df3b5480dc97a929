package site

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	c := Default()
	assert.Equal(t, "Your Name", c.Personal.Name)
	assert.Len(t, c.Personal.Bio, 2)
	assert.Equal(t, []string{"Frontend Development", "Animation & Interaction"}, c.Services.Items)
	require.Len(t, c.Projects, 3)
	assert.Equal(t, app.ProjectRecord{
		Number:      "01",
		Title:       "Project Name",
		Description: "A beautiful web experience with smooth animations and modern design.",
		Tags:        []string{"React", "GSAP", "Next.js"},
		Link:        "#",
	}, c.Projects[0])
	assert.Equal(t, "#0a0a0a", c.Theme.BgColor)
}

func TestSocialLinks(t *testing.T) {
	t.Parallel()

	s := Social{
		Dribbble: "https://dribbble.com/me",
		Github:   "https://github.com/me",
	}
	assert.Equal(t, []SocialLink{
		{Name: "github", URL: "https://github.com/me"},
		{Name: "dribbble", URL: "https://dribbble.com/me"},
	}, s.Links())
}

func TestLoad(t *testing.T) {
	t.Parallel()

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, ioutil.WriteFile(path, []byte("personal:\n  name: Ada\nprojects: []\n"), 0600))
	c, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Personal.Name)
	assert.Empty(t, c.Projects)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	require.NoError(t, ioutil.WriteFile(path, []byte("personal: [broken"), 0600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestExport(t *testing.T) {
	t.Parallel()

	stars := 3
	records := []app.ProjectRecord{
		{
			Number:  "01",
			Title:   "x",
			Tags:    []string{"Go"},
			Link:    "https://github.com/a/x",
			RepoURL: "https://github.com/a/x",
			Source:  app.ProviderGithub,
			Stars:   &stars,
		},
	}

	data, err := Export(Default(), records)
	require.NoError(t, err)

	c, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, records, c.Projects)
	assert.Equal(t, Default().Personal, c.Personal)
}
