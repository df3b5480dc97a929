package app_test

import (
	"context"
	"errors"
	"io/ioutil"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/m-zajac/goportfolio/internal/app/mock"
	"github.com/m-zajac/goportfolio/internal/storage"
	kvmock "github.com/m-zajac/goportfolio/internal/storage/mock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	m      sync.Mutex
	events []app.RecordsUpdated
}

func (n *recordingNotifier) Publish(event app.RecordsUpdated) {
	n.m.Lock()
	defer n.m.Unlock()
	n.events = append(n.events, event)
}

func (n *recordingNotifier) count() int {
	n.m.Lock()
	defer n.m.Unlock()
	return len(n.events)
}

type serviceFixture struct {
	service  *app.Service
	github   *mock.MockRepositoryFetcher
	gitlab   *mock.MockRepositoryFetcher
	records  *storage.RecordStore
	creds    *storage.GitCredentialStore
	notifier *recordingNotifier
}

func newLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = ioutil.Discard
	return l
}

func newServiceFixture(t *testing.T, records []app.ProjectRecord) serviceFixture {
	ctrl := gomock.NewController(t)

	l := newLogger()
	kv := kvmock.NewKVStore(nil)
	recordStore := storage.NewRecordStore(kv, nil, l)
	require.NoError(t, recordStore.Save(records))

	f := serviceFixture{
		github:   mock.NewMockRepositoryFetcher(ctrl),
		gitlab:   mock.NewMockRepositoryFetcher(ctrl),
		records:  recordStore,
		creds:    storage.NewGitCredentialStore(kv, l),
		notifier: &recordingNotifier{},
	}
	f.service = app.NewService(
		map[app.Provider]app.RepositoryFetcher{
			app.ProviderGithub: f.github,
			app.ProviderGitlab: f.gitlab,
		},
		f.records,
		f.creds,
		f.notifier,
		l,
	)

	return f
}

func (f serviceFixture) stored(t *testing.T) []app.ProjectRecord {
	records, err := f.records.Load()
	require.NoError(t, err)
	return records
}

func TestServiceFetchRepos(t *testing.T) {
	t.Parallel()

	repos := []app.Repository{
		{Name: "x", URL: "https://github.com/octocat/x", Source: app.ProviderGithub},
		{Name: "y", URL: "https://github.com/octocat/y", Source: app.ProviderGithub},
	}

	tests := []struct {
		name      string
		provider  app.Provider
		username  string
		setupMock func(f serviceFixture)
		want      []app.Repository
		wantErr   func(error) bool
		wantCreds app.GitCredentials
	}{
		{
			name:      "empty username",
			provider:  app.ProviderGithub,
			username:  "  ",
			setupMock: func(f serviceFixture) {},
			wantErr:   app.IsInvalidRequestError,
		},
		{
			name:      "unknown provider",
			provider:  app.Provider("bitbucket"),
			username:  "octocat",
			setupMock: func(f serviceFixture) {},
			wantErr:   app.IsInvalidRequestError,
		},
		{
			name:     "fetcher error is passed through",
			provider: app.ProviderGithub,
			username: "ghost",
			setupMock: func(f serviceFixture) {
				f.github.EXPECT().
					FetchRepos(gomock.Any(), "ghost", "").
					Return(nil, app.NotFoundError("GitHub user not found"))
			},
			wantErr: app.IsNotFoundError,
		},
		{
			name:     "ok, credentials are saved",
			provider: app.ProviderGithub,
			username: " octocat ",
			setupMock: func(f serviceFixture) {
				f.github.EXPECT().
					FetchRepos(gomock.Any(), "octocat", "").
					Return(repos, nil)
			},
			want:      repos,
			wantCreds: app.GitCredentials{GithubUsername: "octocat"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t, nil)
			tt.setupMock(f)

			got, err := f.service.FetchRepos(context.Background(), tt.provider, tt.username, "")
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, tt.wantErr(err), "unexpected error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			creds, err := f.service.GitCredentials()
			require.NoError(t, err)
			assert.Equal(t, tt.wantCreds, creds)
		})
	}
}

func TestServiceImportFetched(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, []app.ProjectRecord{
		{Number: "01", Title: "manual", Tags: []string{"Art"}, Link: "#"},
	})
	f.gitlab.EXPECT().
		FetchRepos(gomock.Any(), "me", "tok").
		Return([]app.Repository{
			{Name: "tool", URL: "https://gitlab.com/me/tool", Source: app.ProviderGitlab},
			{Name: "lib", URL: "https://gitlab.com/me/lib", Source: app.ProviderGitlab},
		}, nil)

	_, err := f.service.FetchRepos(context.Background(), app.ProviderGitlab, "me", "tok")
	require.NoError(t, err)

	_, _, err = f.service.ImportFetched("https://gitlab.com/me/missing")
	assert.True(t, app.IsNotFoundError(err))

	record, added, err := f.service.ImportFetched("https://gitlab.com/me/tool")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, "02", record.Number)
	assert.Equal(t, 1, f.notifier.count())

	record, added, err = f.service.ImportFetched("https://gitlab.com/me/tool")
	require.NoError(t, err)
	assert.False(t, added)
	assert.Equal(t, "02", record.Number)
	assert.Len(t, f.stored(t), 2)

	fetched, err := f.service.FetchedRepos()
	require.NoError(t, err)
	require.Len(t, fetched, 2)
	assert.True(t, fetched[0].Imported)
	assert.False(t, fetched[1].Imported)
}

func TestServiceSyncAll(t *testing.T) {
	t.Parallel()

	records := []app.ProjectRecord{
		{
			Number:  "01",
			Title:   "x",
			Tags:    []string{"Go"},
			Link:    "https://github.com/a/x",
			Image:   "data:image/png;base64,AAAA",
			RepoURL: "https://github.com/a/x",
			Source:  app.ProviderGithub,
		},
		{
			Number:  "02",
			Title:   "tool",
			Tags:    []string{"Git"},
			Link:    "https://gitlab.com/a/tool",
			RepoURL: "https://gitlab.com/a/tool",
			Source:  app.ProviderGitlab,
		},
	}

	t.Run("no credentials", func(t *testing.T) {
		f := newServiceFixture(t, records)
		_, err := f.service.SyncAll(context.Background(), app.GitCredentials{})
		assert.True(t, app.IsInvalidRequestError(err))
	})

	t.Run("failing provider doesn't stop the other one", func(t *testing.T) {
		f := newServiceFixture(t, records)
		f.github.EXPECT().
			FetchRepos(gomock.Any(), "a", "").
			Return(nil, app.RateLimitError("GitHub API rate limit exceeded"))
		f.gitlab.EXPECT().
			FetchRepos(gomock.Any(), "a", "tok").
			Return([]app.Repository{
				{Name: "tool", Description: "new", URL: "https://gitlab.com/a/tool", Language: "main", Stars: 2, Source: app.ProviderGitlab},
			}, nil)

		result, err := f.service.SyncAll(context.Background(), app.GitCredentials{
			GithubUsername: "a",
			GitlabUsername: "a",
			GitlabToken:    "tok",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 1, result.TotalFetched)
		require.Contains(t, result.Failures, app.ProviderGithub)
		assert.True(t, app.IsRateLimitError(result.Failures[app.ProviderGithub]))

		stored := f.stored(t)
		assert.Equal(t, records[0], stored[0])
		assert.Equal(t, "new", stored[1].Description)
		assert.Equal(t, "02", stored[1].Number)
		assert.Equal(t, 1, f.notifier.count())
	})

	t.Run("nothing linked, nothing saved", func(t *testing.T) {
		f := newServiceFixture(t, records)
		f.github.EXPECT().
			FetchRepos(gomock.Any(), "a", "").
			Return([]app.Repository{
				{Name: "other", URL: "https://github.com/a/other", Source: app.ProviderGithub},
			}, nil)

		result, err := f.service.SyncAll(context.Background(), app.GitCredentials{GithubUsername: "a"})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 1, result.TotalFetched)
		assert.Empty(t, result.Failures)
		assert.Equal(t, 0, f.notifier.count())
	})

	t.Run("all providers failing", func(t *testing.T) {
		f := newServiceFixture(t, records)
		f.github.EXPECT().
			FetchRepos(gomock.Any(), "a", "").
			Return(nil, errors.New("network down"))

		result, err := f.service.SyncAll(context.Background(), app.GitCredentials{GithubUsername: "a"})
		require.NoError(t, err)
		assert.Equal(t, 0, result.Updated)
		assert.Len(t, result.Failures, 1)
		assert.Equal(t, records, f.stored(t))
	})
}

func TestServiceRecordCRUD(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, []app.ProjectRecord{
		{
			Number:  "01",
			Title:   "x",
			Tags:    []string{"Go"},
			Link:    "https://github.com/a/x",
			RepoURL: "https://github.com/a/x",
			Source:  app.ProviderGithub,
			Stars:   intPtr(3),
		},
	})

	_, err := f.service.AddRecord(app.ProjectInput{Number: "02"})
	assert.True(t, app.IsInvalidRequestError(err))

	added, err := f.service.AddRecord(app.ProjectInput{
		Number: " 02 ",
		Title:  "Sketches",
		Tags:   "Art, , Ink ",
	})
	require.NoError(t, err)
	assert.Equal(t, app.ProjectRecord{Number: "02", Title: "Sketches", Tags: []string{"Art", "Ink"}, Link: "#"}, added)

	updated, err := f.service.UpdateRecord(0, app.ProjectInput{
		Number:      "01",
		Title:       "x renamed",
		Description: "edited",
		Tags:        "Go",
		Link:        "https://x.dev",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://github.com/a/x", updated.RepoURL)
	assert.Equal(t, intPtr(3), updated.Stars)

	_, err = f.service.UpdateRecord(5, app.ProjectInput{Number: "01", Title: "t"})
	assert.True(t, app.IsInvalidRequestError(err))

	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	withImage, err := f.service.AttachImage(1, png)
	require.NoError(t, err)
	assert.Contains(t, withImage.Image, "data:image/png;base64,")

	_, err = f.service.AttachImage(1, []byte("plain text"))
	assert.True(t, app.IsInvalidRequestError(err))

	require.NoError(t, f.service.DeleteRecord(0))
	stored := f.stored(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "Sketches", stored[0].Title)
	assert.Equal(t, withImage.Image, stored[0].Image)

	assert.True(t, app.IsInvalidRequestError(f.service.DeleteRecord(1)))

	// add, update, image, delete
	assert.Equal(t, 4, f.notifier.count())
}

func TestServiceSaveGitCredentials(t *testing.T) {
	t.Parallel()

	f := newServiceFixture(t, nil)
	require.NoError(t, f.service.SaveGitCredentials(app.GitCredentials{
		GithubUsername: " octocat ",
		GitlabToken:    " tok\n",
	}))

	creds, err := f.service.GitCredentials()
	require.NoError(t, err)
	assert.Equal(t, app.GitCredentials{GithubUsername: "octocat", GitlabToken: "tok"}, creds)
}
