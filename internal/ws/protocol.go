package ws

import (
	"encoding/json"

	"github.com/deafSpy/lolgames-sub001/internal/match"
)

const ProtocolVersion = "1.0"

type JoinMessage struct {
	Type        string `json:"type"`
	Game        string `json:"game,omitempty"`
	MatchID     string `json:"match_id,omitempty"`
	SeatID      string `json:"seat_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Bots        int    `json:"bots,omitempty"`
	BotLevel    string `json:"bot_level,omitempty"`
	LastEventID string `json:"last_event_id,omitempty"`
}

type MoveMessage struct {
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Params json.RawMessage `json:"params,omitempty"`
}

type JoinResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
	MatchID         string `json:"match_id,omitempty"`
	SeatID          string `json:"seat_id,omitempty"`
}

type MoveResult struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Ok              bool   `json:"ok"`
	Error           string `json:"error,omitempty"`
}

type Snapshot struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	Data            map[string]any `json:"data"`
}

type EventFrame struct {
	Type string `json:"type"`
	match.StreamEvent
}
