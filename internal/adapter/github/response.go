package github

import (
	"github.com/google/go-github/v68/github"
	"github.com/m-zajac/goportfolio/internal/app"
)

func toRepositories(repos []*github.Repository) []app.Repository {
	result := make([]app.Repository, 0, len(repos))
	for _, r := range repos {
		if r == nil {
			continue
		}
		result = append(result, toRepository(r))
	}

	return result
}

func toRepository(r *github.Repository) app.Repository {
	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return app.Repository{
		ID:          r.GetID(),
		Name:        r.GetName(),
		FullName:    r.GetFullName(),
		Description: r.GetDescription(),
		URL:         r.GetHTMLURL(),
		Homepage:    r.GetHomepage(),
		Language:    r.GetLanguage(),
		Topics:      topics,
		Stars:       r.GetStargazersCount(),
		Forks:       r.GetForksCount(),
		Updated:     r.GetUpdatedAt().Time,
		Source:      app.ProviderGithub,
	}
}
