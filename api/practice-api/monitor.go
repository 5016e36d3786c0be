// Copyright (c) 2023-2025 RapidaAI
// Author: Prashant Srivastav <prashant@rapida.ai>
//
// Licensed under GPL-2.0 with Rapida Additional Terms.
// See LICENSE.md or contact sales@rapida.ai for commercial usage.
package practice_api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/rapidaai/celpip-practice/pkg/commons"
)

// subscriberBuffer bounds queued samples per watcher; a slow watcher drops
// samples rather than stalling the publisher.
const subscriberBuffer = 32

var monitorUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// levelFrame is the wire shape for one visualization reading.
type levelFrame struct {
	SessionID  string    `json:"session_id"`
	Level      float64   `json:"level"`
	Frequency  []float64 `json:"frequency,omitempty"`
	TimeDomain []float64 `json:"time_domain,omitempty"`
}

type monitorRoom struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	send chan levelFrame
}

// MonitorHub fans live recording levels from one publisher (the practice CLI
// while a learner records) to any number of watchers per session.
type MonitorHub struct {
	logger commons.Logger

	mu    sync.Mutex
	rooms map[string]*monitorRoom
}

func NewMonitorHub(logger commons.Logger) *MonitorHub {
	return &MonitorHub{
		logger: logger,
		rooms:  make(map[string]*monitorRoom),
	}
}

func (h *MonitorHub) room(sessionID string) *monitorRoom {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		room = &monitorRoom{subscribers: make(map[*subscriber]struct{})}
		h.rooms[sessionID] = room
	}
	return room
}

// Publish forwards one frame to every watcher of the session. Watchers whose
// buffers are full miss the frame.
func (h *MonitorHub) Publish(sessionID string, frame levelFrame) {
	frame.SessionID = sessionID
	room := h.room(sessionID)

	room.mu.Lock()
	for sub := range room.subscribers {
		select {
		case sub.send <- frame:
		default:
		}
	}
	room.mu.Unlock()
}

func (h *MonitorHub) subscribe(sessionID string) *subscriber {
	sub := &subscriber{send: make(chan levelFrame, subscriberBuffer)}
	room := h.room(sessionID)
	room.mu.Lock()
	room.subscribers[sub] = struct{}{}
	room.mu.Unlock()
	return sub
}

func (h *MonitorHub) unsubscribe(sessionID string, sub *subscriber) {
	room := h.room(sessionID)
	room.mu.Lock()
	delete(room.subscribers, sub)
	empty := len(room.subscribers) == 0
	room.mu.Unlock()

	if empty {
		h.mu.Lock()
		if r, ok := h.rooms[sessionID]; ok && r == room {
			room.mu.Lock()
			if len(room.subscribers) == 0 {
				delete(h.rooms, sessionID)
			}
			room.mu.Unlock()
		}
		h.mu.Unlock()
	}
}

// Monitor upgrades the connection and attaches it to the session's room.
// The publisher side sends frames with ?role=publish; everyone else watches.
func (h *MonitorHub) Monitor(c *gin.Context) {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error_message": "missing session id"})
		return
	}
	conn, err := monitorUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warnf("monitor: websocket upgrade failed %v", err)
		return
	}

	if c.Query("role") == "publish" {
		h.runPublisher(sessionID, conn)
		return
	}
	h.runWatcher(sessionID, conn)
}

func (h *MonitorHub) runPublisher(sessionID string, conn *websocket.Conn) {
	defer conn.Close()
	h.logger.Infof("monitor: publisher joined session %s", sessionID)
	for {
		var frame levelFrame
		if err := conn.ReadJSON(&frame); err != nil {
			h.logger.Debugf("monitor: publisher for %s disconnected %v", sessionID, err)
			return
		}
		h.Publish(sessionID, frame)
	}
}

func (h *MonitorHub) runWatcher(sessionID string, conn *websocket.Conn) {
	sub := h.subscribe(sessionID)
	defer func() {
		h.unsubscribe(sessionID, sub)
		conn.Close()
	}()
	h.logger.Infof("monitor: watcher joined session %s", sessionID)

	// drain the read side so close frames are processed
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case frame := <-sub.send:
			if err := conn.WriteJSON(frame); err != nil {
				return
			}
		}
	}
}
