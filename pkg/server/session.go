package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/decred/slog"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/vctt94/holdemtabled/pkg/poker"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from arbitrary origins; auth is the
	// deployment's concern.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// clientMessage is one inbound websocket frame.
type clientMessage struct {
	Type   string        `json:"type"` // action, leave
	Action *poker.Action `json:"action,omitempty"`
}

// session is one player's websocket connection to a table.
type session struct {
	runner *tableRunner
	conn   *websocket.Conn
	name   string
	send   chan []byte
	log    slog.Logger

	closeOnce sync.Once
}

// handleWS upgrades the connection and seats the player at the table.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "tableID")
	runner := s.lookupTable(tableID)
	if runner == nil {
		http.Error(w, "table not found", http.StatusNotFound)
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	avatar := r.URL.Query().Get("avatar")

	if _, err := runner.engine.AddSeat(name, avatar); err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Errorf("websocket upgrade failed for %s: %v", name, err)
		runner.engine.RequestRemoval(name)
		return
	}

	sess := &session{
		runner: runner,
		conn:   conn,
		name:   name,
		send:   make(chan []byte, 64),
		log:    s.logBackend.Logger("SESSION"),
	}
	runner.addSession(sess)

	go sess.writePump()
	go sess.readPump()
}

// readPump reads decisions from the connection until it drops. A
// dropped connection requests seat removal; the engine sits the seat
// out immediately and removes it between hands.
func (sess *session) readPump() {
	defer func() {
		sess.runner.engine.RequestRemoval(sess.name)
		sess.close()
	}()

	sess.conn.SetReadLimit(maxMessageSize)
	sess.conn.SetReadDeadline(time.Now().Add(pongWait))
	sess.conn.SetPongHandler(func(string) error {
		sess.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sess.log.Debugf("session %s read error: %v", sess.name, err)
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			sess.log.Warnf("session %s sent malformed message: %v", sess.name, err)
			continue
		}

		switch msg.Type {
		case "action":
			if msg.Action == nil {
				continue
			}
			action := *msg.Action
			// A session only ever speaks for its own seat.
			action.Seat = sess.name
			if action.Amount < 0 {
				sess.log.Warnf("session %s sent negative amount", sess.name)
				continue
			}
			sess.runner.engine.Submit(action)
		case "leave":
			sess.runner.engine.RequestRemoval(sess.name)
		default:
			sess.log.Warnf("session %s sent unknown message type %q", sess.name, msg.Type)
		}
	}
}

// writePump writes outbound frames and keepalive pings.
func (sess *session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		sess.close()
	}()

	for {
		select {
		case data, ok := <-sess.send:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				sess.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sess.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sess.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (sess *session) close() {
	sess.closeOnce.Do(func() {
		sess.conn.Close()
		sess.runner.removeSession(sess)
	})
}

func (r *tableRunner) addSession(sess *session) {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	r.sessions[sess.name] = sess
}

// removeSession unregisters the session if it is still the one on
// record for its seat.
func (r *tableRunner) removeSession(sess *session) {
	r.sessionsMu.Lock()
	defer r.sessionsMu.Unlock()
	if r.sessions[sess.name] == sess {
		delete(r.sessions, sess.name)
	}
}

// dropSession closes the named seat's connection, if any.
func (r *tableRunner) dropSession(name string) {
	r.sessionsMu.RLock()
	sess := r.sessions[name]
	r.sessionsMu.RUnlock()
	if sess != nil {
		sess.close()
	}
}

// broadcast fans one event out to every session, masking hole cards
// per viewer. A session that cannot keep up loses frames rather than
// stalling the pump; the next snapshot-bearing event resynchronizes it.
func (r *tableRunner) broadcast(event poker.Event) {
	r.sessionsMu.RLock()
	defer r.sessionsMu.RUnlock()

	for name, sess := range r.sessions {
		data, err := json.Marshal(maskEventFor(name, event))
		if err != nil {
			r.log.Errorf("failed to marshal %s event: %v", event.Type, err)
			return
		}
		select {
		case sess.send <- data:
		default:
			r.log.Warnf("session %s send buffer full, dropping %s", name, event.Type)
		}
	}
}

// maskEventFor strips the hole cards a viewer is not entitled to see.
// The engine's snapshots carry every card; what leaves the process is
// the viewer's own cards, showdown-revealed cards, and anonymous card
// backs for everyone else.
func maskEventFor(viewer string, event poker.Event) poker.Event {
	switch payload := event.Payload.(type) {
	case poker.StreetStartedPayload:
		payload.Snapshot = maskSnapshot(payload.Snapshot, viewer, nil)
		event.Payload = payload
	case poker.TurnStartedPayload:
		payload.Snapshot = maskSnapshot(payload.Snapshot, viewer, nil)
		event.Payload = payload
	case poker.PlayerJoinedPayload:
		payload.Snapshot = maskSnapshot(payload.Snapshot, viewer, nil)
		event.Payload = payload
	case poker.HandEndedPayload:
		payload.Snapshot = maskSnapshot(payload.Snapshot, viewer, nil)
		event.Payload = payload
	case poker.ShowdownPayload:
		payload.Snapshot = maskSnapshot(payload.Snapshot, viewer, payload.Revealed)
		event.Payload = payload
	}
	return event
}

// maskSnapshot replaces other seats' card identities with card backs,
// keeping fold markers visible. Seats in revealed went to showdown and
// stay face up for everyone.
func maskSnapshot(snap poker.TableSnapshot, viewer string, revealed map[string][]poker.Card) poker.TableSnapshot {
	seats := make([]poker.SeatSnapshot, len(snap.Seats))
	copy(seats, snap.Seats)

	for i := range seats {
		if seats[i].Name == viewer {
			continue
		}
		if _, ok := revealed[seats[i].Name]; ok {
			continue
		}
		cards := make([]poker.CardView, len(seats[i].Cards))
		for j, card := range seats[i].Cards {
			if card.Visibility == poker.CardFolded {
				cards[j] = poker.CardView{Visibility: poker.CardFolded}
			} else {
				cards[j] = card.Masked()
			}
		}
		seats[i].Cards = cards
	}

	snap.Seats = seats
	return snap
}
