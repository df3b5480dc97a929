package gitlab

import (
	"time"

	"github.com/m-zajac/goportfolio/internal/app"
)

type usersResponse []struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

type projectsResponse []projectsResponseItem

type projectsResponseItem struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	PathWithNamespace string    `json:"path_with_namespace"`
	Description       string    `json:"description"`
	WebURL            string    `json:"web_url"`
	Homepage          string    `json:"homepage"`
	DefaultBranch     string    `json:"default_branch"`
	TagList           []string  `json:"tag_list"`
	Topics            []string  `json:"topics"`
	StarCount         int       `json:"star_count"`
	ForksCount        int       `json:"forks_count"`
	LastActivityAt    time.Time `json:"last_activity_at"`
}

// ToRepositories maps projects to repositories.
// GitLab's projects listing has no language, default branch name is used in its place.
func (p projectsResponse) ToRepositories() []app.Repository {
	repos := make([]app.Repository, 0, len(p))
	for _, i := range p {
		topics := i.TagList
		if len(topics) == 0 {
			topics = i.Topics
		}
		if topics == nil {
			topics = []string{}
		}

		repos = append(repos, app.Repository{
			ID:          i.ID,
			Name:        i.Name,
			FullName:    i.PathWithNamespace,
			Description: i.Description,
			URL:         i.WebURL,
			Homepage:    i.Homepage,
			Language:    i.DefaultBranch,
			Topics:      topics,
			Stars:       i.StarCount,
			Forks:       i.ForksCount,
			Updated:     i.LastActivityAt,
			Source:      app.ProviderGitlab,
		})
	}

	return repos
}
