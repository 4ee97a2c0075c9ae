package httptransport

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/deafSpy/lolgames-sub001/internal/match"
	"github.com/deafSpy/lolgames-sub001/internal/store"
	"github.com/deafSpy/lolgames-sub001/internal/ws"
)

func NewRouter(coord *match.Coordinator, st *store.Store, wsSrv *ws.Server) *chi.Mux {
	publicHandlers := NewPublicHandlers(coord, st)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", publicHandlers.Health())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())
		r.Get("/public/variants", publicHandlers.Variants())
		r.Get("/public/matches", publicHandlers.Matches())
		r.Post("/public/matches", publicHandlers.CreateMatch())
		r.Get("/public/matches/{match_id}", publicHandlers.Match())
		r.Get("/public/matches/{match_id}/events", publicHandlers.MatchEvents())
		r.Get("/public/history", publicHandlers.History())
	})

	r.Get("/ws", wsSrv.HandleWS)

	return r
}

func LogRoutes(r chi.Router) {
	type routeDef struct {
		Method string
		Path   string
	}
	routes := make([]routeDef, 0, 16)
	err := chi.Walk(r, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, routeDef{Method: method, Path: route})
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("walk routes failed")
		return
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Registered routes (%d):\n", len(routes)))
	for _, rt := range routes {
		b.WriteString(fmt.Sprintf("  %-6s %s\n", rt.Method, rt.Path))
	}
	fmt.Print(b.String())
}
