// Package ws is the realtime gateway: one WebSocket connection per
// seat, speaking a small JSON protocol over the match event stream.
package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/match"
)

type Client struct {
	conn   *websocket.Conn
	send   chan []byte
	seatID string
	sess   *match.Session
	events chan match.StreamEvent
}

type Server struct {
	coord    *match.Coordinator
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]bool
}

func NewServer(coord *match.Coordinator) *Server {
	return &Server{
		coord:    coord,
		upgrader: websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
		clients:  map[*Client]bool{},
	}
}

func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	client := &Client{conn: conn, send: make(chan []byte, 32)}
	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	go s.writeLoop(client)
	s.readLoop(client)
}

func (s *Server) readLoop(c *Client) {
	defer func() {
		s.unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &base); err != nil {
			continue
		}
		switch base.Type {
		case "join":
			if c.sess != nil {
				continue
			}
			var join JoinMessage
			if err := json.Unmarshal(msg, &join); err != nil {
				continue
			}
			s.handleJoin(c, join)
		case "start":
			if c.sess == nil {
				continue
			}
			if err := c.sess.Start(); err != nil {
				s.sendMoveResult(c, false, mapError(err))
			}
		case "move":
			if c.sess == nil {
				continue
			}
			var mv MoveMessage
			if err := json.Unmarshal(msg, &mv); err != nil {
				s.sendMoveResult(c, false, "invalid_payload")
				continue
			}
			err := c.sess.SubmitMove(c.seatID, game.Move{Action: mv.Action, Params: mv.Params})
			if err != nil {
				s.sendMoveResult(c, false, mapError(err))
				continue
			}
			s.sendMoveResult(c, true, "")
		case "leave":
			return
		}
	}
}

func (s *Server) writeLoop(c *Client) {
	for msg := range c.send {
		_ = c.conn.WriteMessage(websocket.TextMessage, msg)
	}
}

// handleJoin resolves the session in precedence order: explicit
// match_id (join or reconnect), then an open match of the requested
// variant, then a fresh match.
func (s *Server) handleJoin(c *Client, join JoinMessage) {
	sess, code := s.resolveSession(join)
	if sess == nil {
		s.sendJoinResult(c, false, code, "", "")
		return
	}

	seatID := join.SeatID
	if seatID == "" {
		seatID = uuid.NewString()
	}
	name := join.Name
	if name == "" {
		name = "guest"
	}
	if err := sess.Join(seatID, name); err != nil {
		s.sendJoinResult(c, false, mapError(err), sess.ID, "")
		return
	}
	c.seatID = seatID
	c.sess = sess
	s.sendJoinResult(c, true, "", sess.ID, seatID)

	snap, _ := json.Marshal(Snapshot{Type: "snapshot", ProtocolVersion: ProtocolVersion, Data: sess.Snapshot(seatID)})
	safeSend(c.send, snap)

	c.events = sess.Events().Subscribe()
	replay := sess.Events().ReplayAfter(join.LastEventID)
	go s.pumpEvents(c, replay)

	log.Info().Str("match_id", sess.ID).Str("seat_id", seatID).
		Str("variant", string(sess.Variant)).Msg("ws seat joined")
}

func (s *Server) resolveSession(join JoinMessage) (*match.Session, string) {
	if join.MatchID != "" {
		sess, ok := s.coord.Get(join.MatchID)
		if !ok {
			return nil, "match_not_found"
		}
		return sess, ""
	}
	variant := game.Variant(join.Game)
	if _, ok := game.Lookup(variant); !ok {
		return nil, "unknown_game_type"
	}
	if join.Bots == 0 {
		if sess, ok := s.coord.FindWaiting(variant); ok {
			return sess, ""
		}
	}
	sess, err := s.coord.Create(match.CreateOptions{
		Variant:  variant,
		Bots:     join.Bots,
		BotLevel: game.BotLevel(join.BotLevel),
	})
	if err != nil {
		return nil, mapError(err)
	}
	return sess, ""
}

// pumpEvents replays the backlog, then forwards live events until the
// buffer closes or the client goes away.
func (s *Server) pumpEvents(c *Client, replay []match.StreamEvent) {
	for _, ev := range replay {
		msg, _ := json.Marshal(EventFrame{Type: "event", StreamEvent: ev})
		safeSend(c.send, msg)
	}
	for ev := range c.events {
		msg, _ := json.Marshal(EventFrame{Type: "event", StreamEvent: ev})
		safeSend(c.send, msg)
	}
}

func (s *Server) unregister(c *Client) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	if c.sess != nil {
		if c.events != nil {
			c.sess.Events().Unsubscribe(c.events)
		}
		if err := c.sess.Leave(c.seatID); err == nil {
			log.Info().Str("match_id", c.sess.ID).Str("seat_id", c.seatID).Msg("ws seat left")
		}
	}
	safeClose(c.send)
}

func safeClose(ch chan []byte) {
	defer func() {
		_ = recover()
	}()
	close(ch)
}

func safeSend(ch chan []byte, msg []byte) {
	defer func() {
		_ = recover()
	}()
	select {
	case ch <- msg:
	default:
	}
}

func (s *Server) sendJoinResult(c *Client, ok bool, errCode, matchID, seatID string) {
	msg, _ := json.Marshal(JoinResult{Type: "join_result", ProtocolVersion: ProtocolVersion, Ok: ok, Error: errCode, MatchID: matchID, SeatID: seatID})
	safeSend(c.send, msg)
}

func (s *Server) sendMoveResult(c *Client, ok bool, errCode string) {
	msg, _ := json.Marshal(MoveResult{Type: "move_result", ProtocolVersion: ProtocolVersion, Ok: ok, Error: errCode})
	safeSend(c.send, msg)
}

func mapError(err error) string {
	if err == nil {
		return ""
	}
	var illegal *game.IllegalMoveError
	if errors.As(err, &illegal) {
		return illegal.Reason
	}
	switch {
	case errors.Is(err, game.ErrNotYourTurn):
		return "not_your_turn"
	case errors.Is(err, game.ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, game.ErrUnknownVariant):
		return "unknown_game_type"
	case errors.Is(err, match.ErrRoomFull):
		return "room_full"
	case errors.Is(err, match.ErrAlreadyStarted):
		return "already_started"
	case errors.Is(err, match.ErrNotStarted):
		return "not_started"
	case errors.Is(err, match.ErrMatchFinished):
		return "match_finished"
	case errors.Is(err, match.ErrUnknownSeat):
		return "unknown_seat"
	case errors.Is(err, match.ErrMatchNotFound):
		return "match_not_found"
	case errors.Is(err, match.ErrNotEnoughSeats):
		return "not_enough_seats"
	}
	return "unknown_error"
}
