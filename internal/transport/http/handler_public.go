package httptransport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/deafSpy/lolgames-sub001/internal/game"
	"github.com/deafSpy/lolgames-sub001/internal/match"
	"github.com/deafSpy/lolgames-sub001/internal/store"
)

type PublicHandlers struct {
	coord *match.Coordinator
	st    *store.Store
}

func NewPublicHandlers(coord *match.Coordinator, st *store.Store) *PublicHandlers {
	return &PublicHandlers{coord: coord, st: st}
}

func (h *PublicHandlers) Variants() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		type variantInfo struct {
			Variant  game.Variant `json:"variant"`
			MinSeats int          `json:"min_seats"`
			MaxSeats int          `json:"max_seats"`
		}
		out := []variantInfo{}
		for _, v := range game.Variants() {
			def, _ := game.Lookup(v)
			out = append(out, variantInfo{Variant: v, MinSeats: def.MinSeats, MaxSeats: def.MaxSeats})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"variants": out})
	}
}

func (h *PublicHandlers) Matches() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"matches": h.coord.List()})
	}
}

func (h *PublicHandlers) CreateMatch() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Game     string `json:"game"`
			Bots     int    `json:"bots"`
			BotLevel string `json:"bot_level"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteHTTPError(w, http.StatusBadRequest, "invalid_request")
			return
		}
		sess, err := h.coord.Create(match.CreateOptions{
			Variant:  game.Variant(req.Game),
			Bots:     req.Bots,
			BotLevel: game.BotLevel(req.BotLevel),
		})
		if err != nil {
			switch {
			case errors.Is(err, game.ErrUnknownVariant):
				WriteHTTPError(w, http.StatusBadRequest, "unknown_game_type")
			case errors.Is(err, match.ErrRoomFull):
				WriteHTTPError(w, http.StatusBadRequest, "room_full")
			default:
				WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			}
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(sess.Snapshot(""))
	}
}

func (h *PublicHandlers) Match() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.coord.Get(chi.URLParam(r, "match_id"))
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "match_not_found")
			return
		}
		_ = json.NewEncoder(w).Encode(sess.Snapshot(r.URL.Query().Get("seat_id")))
	}
}

// MatchEvents replays the retained event log, for spectators and for
// clients resuming after a drop.
func (h *PublicHandlers) MatchEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.coord.Get(chi.URLParam(r, "match_id"))
		if !ok {
			WriteHTTPError(w, http.StatusNotFound, "match_not_found")
			return
		}
		events := sess.Events().ReplayAfter(r.URL.Query().Get("after"))
		if events == nil {
			events = []match.StreamEvent{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"events": events})
	}
}

func (h *PublicHandlers) History() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.st == nil {
			_ = json.NewEncoder(w).Encode(map[string]any{"results": []store.HistoryRow{}})
			return
		}
		limit := ParseLimit(r, 50, 200)
		rows, err := h.st.RecentResults(r.Context(), limit)
		if err != nil {
			WriteHTTPError(w, http.StatusInternalServerError, "internal_error")
			return
		}
		if rows == nil {
			rows = []store.HistoryRow{}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": rows})
	}
}

func (h *PublicHandlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
	}
}
