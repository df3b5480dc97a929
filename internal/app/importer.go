package app

import (
	"fmt"
	"strings"
)

// Topics that say nothing about the technology and are never turned into tags.
var genericTopics = map[string]bool{
	"portfolio":   true,
	"project":     true,
	"website":     true,
	"web":         true,
	"app":         true,
	"application": true,
}

const (
	defaultTag          = "Git"
	projectNumberLength = 2
)

// ToProject maps repository to a new project record.
// If explicitNumber is empty, number is derived from recordCount.
func ToProject(repo Repository, explicitNumber string, recordCount int) ProjectRecord {
	number := explicitNumber
	if number == "" {
		number = fmt.Sprintf("%0*d", projectNumberLength, recordCount+1)
	}

	description := repo.Description
	if description == "" {
		description = fmt.Sprintf("%s - %s repository", repo.Name, repo.Source.Title())
	}

	link := repo.Homepage
	if link == "" {
		link = repo.URL
	}

	stars := repo.Stars
	forks := repo.Forks

	return ProjectRecord{
		Number:      number,
		Title:       repo.Name,
		Description: description,
		Tags:        repoTags(repo),
		Link:        link,
		RepoURL:     repo.URL,
		Source:      repo.Source,
		Stars:       &stars,
		Forks:       &forks,
	}
}

func repoTags(repo Repository) []string {
	tags := make([]string, 0, len(repo.Topics)+1)
	if repo.Language != "" {
		tags = append(tags, repo.Language)
	}
	for _, topic := range repo.Topics {
		if genericTopics[strings.ToLower(topic)] {
			continue
		}
		tags = append(tags, topic)
	}
	if len(tags) == 0 {
		return []string{defaultTag}
	}

	return tags
}

// Merge applies freshly derived record onto the existing one.
//
// Fields coming from the repository (title, description, tags, link, repoUrl, source, stars, forks)
// always win. Number is always kept, image is kept unless derived one is set.
func Merge(existing ProjectRecord, derived ProjectRecord) ProjectRecord {
	merged := derived
	merged.Number = existing.Number
	if merged.Image == "" {
		merged.Image = existing.Image
	}

	return merged
}

// ImportOrUpdate adds repository to the record list, or merges it into the record with the same repoUrl.
// Returns updated list and number of newly added records.
func ImportOrUpdate(repo Repository, records []ProjectRecord) ([]ProjectRecord, int) {
	if i := indexByRepoURL(records, repo.URL); i >= 0 {
		updated := make([]ProjectRecord, len(records))
		copy(updated, records)
		updated[i] = Merge(records[i], ToProject(repo, records[i].Number, len(records)))
		return updated, 0
	}

	updated := make([]ProjectRecord, len(records), len(records)+1)
	copy(updated, records)
	updated = append(updated, ToProject(repo, "", len(records)))

	return updated, 1
}

// SyncRecords merges every record linked to one of given repositories.
// Records without repoUrl or without matching repository are left untouched.
// Returns updated list and number of merged records.
func SyncRecords(records []ProjectRecord, repos []Repository) ([]ProjectRecord, int) {
	byURL := make(map[string]Repository, len(repos))
	for _, r := range repos {
		if _, ok := byURL[r.URL]; !ok {
			byURL[r.URL] = r
		}
	}

	updated := make([]ProjectRecord, len(records))
	copy(updated, records)

	var count int
	for i, record := range records {
		if record.RepoURL == "" {
			continue
		}
		repo, ok := byURL[record.RepoURL]
		if !ok {
			continue
		}
		updated[i] = Merge(record, ToProject(repo, record.Number, len(records)))
		count++
	}

	return updated, count
}

func indexByRepoURL(records []ProjectRecord, repoURL string) int {
	if repoURL == "" {
		return -1
	}
	for i, r := range records {
		if r.RepoURL == repoURL {
			return i
		}
	}
	return -1
}
