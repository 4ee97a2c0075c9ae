// table-bot is a standalone WebSocket client that occupies one seat and
// plays naive moves. Useful for smoke-testing a running server.
package main

import (
	"encoding/json"
	"log"
	"math/rand"
	"time"

	"github.com/gorilla/websocket"

	"github.com/deafSpy/lolgames-sub001/internal/config"
)

type joinMsg struct {
	Type    string `json:"type"`
	Game    string `json:"game,omitempty"`
	MatchID string `json:"match_id,omitempty"`
	Name    string `json:"name"`
}

type moveMsg struct {
	Type   string         `json:"type"`
	Action string         `json:"action"`
	Params map[string]any `json:"params,omitempty"`
}

type joinResult struct {
	Type   string `json:"type"`
	Ok     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	SeatID string `json:"seat_id"`
}

type eventFrame struct {
	Type  string `json:"type"`
	Event string `json:"event"`
	Data  struct {
		Authorized []string       `json:"authorized"`
		Phase      string         `json:"phase"`
		State      map[string]any `json:"state"`
	} `json:"data"`
}

func main() {
	cfg, err := config.LoadBot()
	if err != nil {
		log.Fatal(err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(cfg.WSURL, nil)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	join := joinMsg{Type: "join", Game: cfg.Game, MatchID: cfg.MatchID, Name: cfg.Name}
	msg, _ := json.Marshal(join)
	_ = conn.WriteMessage(websocket.TextMessage, msg)

	rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
	seatID := ""
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(data, &base); err != nil {
			continue
		}
		switch base.Type {
		case "join_result":
			var jr joinResult
			if err := json.Unmarshal(data, &jr); err != nil {
				continue
			}
			if !jr.Ok {
				log.Fatalf("join failed: %s", jr.Error)
			}
			seatID = jr.SeatID
			log.Printf("seated as %s", seatID)
		case "event":
			var ev eventFrame
			if err := json.Unmarshal(data, &ev); err != nil {
				continue
			}
			if ev.Event == "game_over" {
				log.Println("game over")
				return
			}
			if ev.Event != "state" || !contains(ev.Data.Authorized, seatID) {
				continue
			}
			mv := decide(rnd, cfg.Game)
			payload, _ := json.Marshal(mv)
			_ = conn.WriteMessage(websocket.TextMessage, payload)
		}
	}
}

func decide(rnd *rand.Rand, game string) moveMsg {
	switch game {
	case "rps":
		choices := []string{"rock", "paper", "scissors"}
		return moveMsg{Type: "move", Action: "commit", Params: map[string]any{"choice": choices[rnd.Intn(3)]}}
	default: // connect4
		return moveMsg{Type: "move", Action: "drop", Params: map[string]any{"column": rnd.Intn(7)}}
	}
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
