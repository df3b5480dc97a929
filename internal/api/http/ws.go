package http

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/m-zajac/goportfolio/internal/app"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// ProjectsUpdatedMessage is sent to page clients after every change of the record list.
type ProjectsUpdatedMessage struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
	HTML  string `json:"html"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// NewLiveHandler creates handler pushing rendered project lists to connected pages.
func NewLiveHandler(events Subscriber, renderer Renderer, l logrus.FieldLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			l.Warnf("upgrading connection: %v", err)
			return
		}
		defer conn.Close()

		updates, unsubscribe := events.Subscribe()
		defer unsubscribe()

		done := make(chan struct{})
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			writeLoop(conn, updates, done, renderer, l)
		}()

		// Reads keep pong handling alive. Clients aren't expected to send anything.
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		close(done)
		wg.Wait()
	}
}

func writeLoop(
	conn *websocket.Conn,
	updates <-chan app.RecordsUpdated,
	done <-chan struct{},
	renderer Renderer,
	l logrus.FieldLogger,
) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case event, ok := <-updates:
			if !ok {
				return
			}
			html, err := renderer.Projects(event.Records)
			if err != nil {
				l.Errorf("rendering projects: %v", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			err = conn.WriteJSON(ProjectsUpdatedMessage{
				Type:  "projectsUpdated",
				Count: len(event.Records),
				HTML:  html,
			})
			if err != nil {
				l.Debugf("writing update: %v", err)
				_ = conn.Close()
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				_ = conn.Close()
				return
			}
		}
	}
}
