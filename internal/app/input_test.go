package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectInputValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      ProjectInput
		wantErr bool
	}{
		{name: "ok", in: ProjectInput{Number: "01", Title: "t"}},
		{name: "missing number", in: ProjectInput{Title: "t"}, wantErr: true},
		{name: "blank title", in: ProjectInput{Number: "01", Title: "   "}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if tt.wantErr {
				assert.True(t, IsInvalidRequestError(err), "unexpected error: %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProjectInputToRecord(t *testing.T) {
	t.Parallel()

	stars := 4
	base := ProjectRecord{
		Number:  "09",
		Title:   "old",
		Image:   "data:image/png;base64,AAAA",
		RepoURL: "https://github.com/a/x",
		Source:  ProviderGithub,
		Stars:   &stars,
	}
	in := ProjectInput{
		Number:      "03",
		Title:       "new",
		Description: "desc",
		Tags:        " Go,,React , ",
		Link:        "  ",
	}

	got := in.ToRecord(base)
	assert.Equal(t, ProjectRecord{
		Number:      "03",
		Title:       "new",
		Description: "desc",
		Tags:        []string{"Go", "React"},
		Link:        "#",
		RepoURL:     "https://github.com/a/x",
		Source:      ProviderGithub,
		Stars:       &stars,
	}, got)
}

func TestImageDataURI(t *testing.T) {
	t.Parallel()

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	uri, err := ImageDataURI(gif)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/gif;base64,R0lGODlh"), uri)

	_, err = ImageDataURI(nil)
	assert.True(t, IsInvalidRequestError(err))

	_, err = ImageDataURI([]byte("%PDF-1.4"))
	assert.True(t, IsInvalidRequestError(err))

	big := append([]byte("GIF89a"), bytes.Repeat([]byte{0}, MaxImageSize)...)
	_, err = ImageDataURI(big)
	require.Error(t, err)
	assert.Equal(t, "Image size must be less than 5MB", err.Error())
}
