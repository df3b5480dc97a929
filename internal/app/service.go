package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

// RepositoryFetcher returns repositories of given user from a single provider.
// Token is optional.
//go:generate mockgen -destination mock/fetcher.go -package mock github.com/m-zajac/goportfolio/internal/app RepositoryFetcher
type RepositoryFetcher interface {
	FetchRepos(ctx context.Context, username string, token string) ([]Repository, error)
}

// RecordStore persists the project record list.
type RecordStore interface {
	Load() ([]ProjectRecord, error)
	Save(records []ProjectRecord) error
}

// GitCredentialStore persists provider usernames and tokens.
type GitCredentialStore interface {
	Load() (GitCredentials, error)
	Save(creds GitCredentials) error
}

// Notifier is informed about every persisted change of the record list.
type Notifier interface {
	Publish(event RecordsUpdated)
}

// Service is main apps entry point. Provides project list management and repository sync.
type Service struct {
	fetchers map[Provider]RepositoryFetcher
	records  RecordStore
	gitCreds GitCredentialStore
	notifier Notifier
	l        logrus.FieldLogger

	// Serializes record list read-modify-write cycles.
	recordsMu sync.Mutex

	fetchedMu sync.Mutex
	fetched   []Repository
}

// NewService creates new Service instance.
func NewService(
	fetchers map[Provider]RepositoryFetcher,
	records RecordStore,
	gitCreds GitCredentialStore,
	notifier Notifier,
	l logrus.FieldLogger,
) *Service {
	return &Service{
		fetchers: fetchers,
		records:  records,
		gitCreds: gitCreds,
		notifier: notifier,
		l:        l,
	}
}

// Records returns current record list.
func (s *Service) Records() ([]ProjectRecord, error) {
	return s.records.Load()
}

// FetchRepos fetches repositories of given user from the provider.
//
// Result replaces the list remembered from previous fetch, and on success
// username and token are saved as provider's git credentials.
func (s *Service) FetchRepos(ctx context.Context, provider Provider, username string, token string) ([]Repository, error) {
	username = strings.TrimSpace(username)
	token = strings.TrimSpace(token)
	if username == "" {
		return nil, InvalidRequestError(fmt.Sprintf("Please enter %s username", provider.Title()))
	}
	fetcher, ok := s.fetchers[provider]
	if !ok {
		return nil, InvalidRequestError(fmt.Sprintf("unknown provider: %s", provider))
	}

	repos, err := fetcher.FetchRepos(ctx, username, token)
	if err != nil {
		return nil, fmt.Errorf("fetching %s repositories: %w", provider, err)
	}

	s.fetchedMu.Lock()
	s.fetched = repos
	s.fetchedMu.Unlock()

	creds, err := s.gitCreds.Load()
	if err != nil {
		return nil, fmt.Errorf("loading git credentials: %w", err)
	}
	switch provider {
	case ProviderGithub:
		creds.GithubUsername, creds.GithubToken = username, token
	case ProviderGitlab:
		creds.GitlabUsername, creds.GitlabToken = username, token
	}
	if err := s.gitCreds.Save(creds); err != nil {
		return nil, fmt.Errorf("saving git credentials: %w", err)
	}

	return repos, nil
}

// FetchedRepos returns repositories from the last fetch, marked if already imported.
func (s *Service) FetchedRepos() ([]FetchedRepository, error) {
	records, err := s.records.Load()
	if err != nil {
		return nil, fmt.Errorf("loading records: %w", err)
	}

	s.fetchedMu.Lock()
	repos := s.fetched
	s.fetchedMu.Unlock()

	result := make([]FetchedRepository, 0, len(repos))
	for _, r := range repos {
		result = append(result, FetchedRepository{
			Repository: r,
			Imported:   indexByRepoURL(records, r.URL) >= 0,
		})
	}

	return result, nil
}

// ImportFetched imports repository with given url from the last fetch.
// Returns resulting record and true if it was added as a new one.
func (s *Service) ImportFetched(repoURL string) (ProjectRecord, bool, error) {
	s.fetchedMu.Lock()
	var repo *Repository
	for i := range s.fetched {
		if s.fetched[i].URL == repoURL {
			r := s.fetched[i]
			repo = &r
			break
		}
	}
	s.fetchedMu.Unlock()

	if repo == nil {
		return ProjectRecord{}, false, NotFoundError("Repository not found")
	}

	return s.Import(*repo)
}

// Import adds the repository to the record list or updates its existing record.
func (s *Service) Import(repo Repository) (ProjectRecord, bool, error) {
	var (
		record ProjectRecord
		added  int
	)
	err := s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		var updated []ProjectRecord
		updated, added = ImportOrUpdate(repo, records)
		record = updated[indexByRepoURL(updated, repo.URL)]
		return updated, true, nil
	})
	if err != nil {
		return ProjectRecord{}, false, err
	}

	return record, added > 0, nil
}

// SyncAll fetches repositories from every provider configured in creds and updates linked records.
//
// Provider failures don't stop the sync. They are logged and reported in the result.
func (s *Service) SyncAll(ctx context.Context, creds GitCredentials) (SyncResult, error) {
	type job struct {
		provider Provider
		username string
		token    string
	}
	var jobs []job
	if u := strings.TrimSpace(creds.GithubUsername); u != "" {
		jobs = append(jobs, job{provider: ProviderGithub, username: u, token: creds.GithubToken})
	}
	if u := strings.TrimSpace(creds.GitlabUsername); u != "" {
		jobs = append(jobs, job{provider: ProviderGitlab, username: u, token: creds.GitlabToken})
	}
	if len(jobs) == 0 {
		return SyncResult{}, InvalidRequestError("Please configure GitHub or GitLab first")
	}

	type respWrapper struct {
		provider Provider
		repos    []Repository
		err      error
	}
	responses := make(chan respWrapper, len(jobs))
	for _, j := range jobs {
		j := j
		go func() {
			fetcher, ok := s.fetchers[j.provider]
			if !ok {
				responses <- respWrapper{provider: j.provider, err: fmt.Errorf("no fetcher for %s", j.provider)}
				return
			}
			repos, err := fetcher.FetchRepos(ctx, j.username, j.token)
			responses <- respWrapper{provider: j.provider, repos: repos, err: err}
		}()
	}

	result := SyncResult{
		Failures: make(map[Provider]error),
	}
	reposByProvider := make(map[Provider][]Repository, len(jobs))
	for i := 0; i < cap(responses); i++ {
		resp := <-responses
		if resp.err != nil {
			s.l.Errorf("syncing %s: %v", resp.provider, resp.err)
			result.Failures[resp.provider] = resp.err
			continue
		}
		reposByProvider[resp.provider] = resp.repos
	}

	// Keep provider order stable regardless of which fetch finished first.
	var repos []Repository
	for _, j := range jobs {
		repos = append(repos, reposByProvider[j.provider]...)
	}
	result.TotalFetched = len(repos)

	err := s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		var updated []ProjectRecord
		updated, result.Updated = SyncRecords(records, repos)
		return updated, result.Updated > 0, nil
	})
	if err != nil {
		return result, err
	}

	s.l.Infof("sync done: updated %d projects from %d repositories", result.Updated, result.TotalFetched)

	return result, nil
}

// AddRecord appends a record built from the dashboard form.
func (s *Service) AddRecord(in ProjectInput) (ProjectRecord, error) {
	if err := in.Validate(); err != nil {
		return ProjectRecord{}, err
	}
	record := in.ToRecord(ProjectRecord{})

	err := s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		return append(records, record), true, nil
	})
	if err != nil {
		return ProjectRecord{}, err
	}

	return record, nil
}

// UpdateRecord replaces record at given index with the form values.
// Repository link and stats of the existing record are kept.
func (s *Service) UpdateRecord(index int, in ProjectInput) (ProjectRecord, error) {
	if err := in.Validate(); err != nil {
		return ProjectRecord{}, err
	}

	var record ProjectRecord
	err := s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		if err := checkIndex(records, index); err != nil {
			return nil, false, err
		}
		record = in.ToRecord(records[index])
		records[index] = record
		return records, true, nil
	})
	if err != nil {
		return ProjectRecord{}, err
	}

	return record, nil
}

// DeleteRecord removes record at given index.
func (s *Service) DeleteRecord(index int) error {
	return s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		if err := checkIndex(records, index); err != nil {
			return nil, false, err
		}
		return append(records[:index], records[index+1:]...), true, nil
	})
}

// AttachImage sets record's image to the given image content.
func (s *Service) AttachImage(index int, data []byte) (ProjectRecord, error) {
	uri, err := ImageDataURI(data)
	if err != nil {
		return ProjectRecord{}, err
	}

	var record ProjectRecord
	err = s.update(func(records []ProjectRecord) ([]ProjectRecord, bool, error) {
		if err := checkIndex(records, index); err != nil {
			return nil, false, err
		}
		records[index].Image = uri
		record = records[index]
		return records, true, nil
	})
	if err != nil {
		return ProjectRecord{}, err
	}

	return record, nil
}

// GitCredentials returns saved provider credentials.
func (s *Service) GitCredentials() (GitCredentials, error) {
	return s.gitCreds.Load()
}

// SaveGitCredentials overwrites saved provider credentials.
func (s *Service) SaveGitCredentials(creds GitCredentials) error {
	creds.GithubUsername = strings.TrimSpace(creds.GithubUsername)
	creds.GithubToken = strings.TrimSpace(creds.GithubToken)
	creds.GitlabUsername = strings.TrimSpace(creds.GitlabUsername)
	creds.GitlabToken = strings.TrimSpace(creds.GitlabToken)

	return s.gitCreds.Save(creds)
}

// update runs fn on the current record list. If fn reports a change, list is saved and notifier is called.
func (s *Service) update(fn func([]ProjectRecord) ([]ProjectRecord, bool, error)) error {
	s.recordsMu.Lock()
	defer s.recordsMu.Unlock()

	records, err := s.records.Load()
	if err != nil {
		return fmt.Errorf("loading records: %w", err)
	}

	updated, changed, err := fn(records)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if err := s.records.Save(updated); err != nil {
		return fmt.Errorf("saving records: %w", err)
	}
	if s.notifier != nil {
		s.notifier.Publish(RecordsUpdated{Records: updated})
	}

	return nil
}

func checkIndex(records []ProjectRecord, index int) error {
	if index < 0 || index >= len(records) {
		return InvalidRequestError(fmt.Sprintf("no project at index %d", index))
	}
	return nil
}
