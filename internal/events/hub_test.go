package events

import (
	"io/ioutil"
	"testing"

	"github.com/m-zajac/goportfolio/internal/app"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(bufferSize int) *Hub {
	l := logrus.New()
	l.Out = ioutil.Discard
	return NewHub(bufferSize, l)
}

func TestHubPublish(t *testing.T) {
	t.Parallel()

	h := newTestHub(2)
	a, unsubA := h.Subscribe()
	b, unsubB := h.Subscribe()
	defer unsubB()
	require.Equal(t, 2, h.Subscribers())

	event := app.RecordsUpdated{Records: []app.ProjectRecord{{Number: "01"}}}
	h.Publish(event)

	assert.Equal(t, event, <-a)
	assert.Equal(t, event, <-b)

	unsubA()
	unsubA()
	assert.Equal(t, 1, h.Subscribers())
	_, ok := <-a
	assert.False(t, ok, "channel is closed after unsubscribe")

	h.Publish(event)
	assert.Equal(t, event, <-b)
}

func TestHubPublishDoesNotBlock(t *testing.T) {
	t.Parallel()

	h := newTestHub(1)
	ch, unsub := h.Subscribe()
	defer unsub()

	first := app.RecordsUpdated{Records: []app.ProjectRecord{{Number: "01"}}}
	second := app.RecordsUpdated{Records: []app.ProjectRecord{{Number: "02"}}}
	h.Publish(first)
	h.Publish(second)

	assert.Equal(t, first, <-ch)
	select {
	case e := <-ch:
		t.Fatalf("unexpected event: %v", e)
	default:
	}
}
