package app

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/gookit/validate"
)

// MaxImageSize is the biggest image accepted by AttachImage.
const MaxImageSize = 5 * 1024 * 1024

// ProjectInput is a project as submitted from the dashboard form.
// Tags are comma separated.
type ProjectInput struct {
	Number      string `json:"number" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Tags        string `json:"tags"`
	Link        string `json:"link"`
	Image       string `json:"image"`
}

// Validate checks required fields.
func (in *ProjectInput) Validate() error {
	in.Number = strings.TrimSpace(in.Number)
	in.Title = strings.TrimSpace(in.Title)

	v := validate.Struct(in)
	if !v.Validate() {
		return InvalidRequestError(v.Errors.One())
	}

	return nil
}

// ToRecord converts input to a record. Repository fields are copied from base.
func (in ProjectInput) ToRecord(base ProjectRecord) ProjectRecord {
	tags := make([]string, 0)
	for _, t := range strings.Split(in.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	link := strings.TrimSpace(in.Link)
	if link == "" {
		link = "#"
	}

	return ProjectRecord{
		Number:      in.Number,
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		Link:        link,
		Image:       strings.TrimSpace(in.Image),
		RepoURL:     base.RepoURL,
		Source:      base.Source,
		Stars:       base.Stars,
		Forks:       base.Forks,
	}
}

// ImageDataURI validates image content and encodes it as a data uri.
func ImageDataURI(data []byte) (string, error) {
	if len(data) == 0 {
		return "", InvalidRequestError("Please select an image file")
	}
	if len(data) > MaxImageSize {
		return "", InvalidRequestError("Image size must be less than 5MB")
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", InvalidRequestError("Please select an image file")
	}

	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(data)), nil
}
