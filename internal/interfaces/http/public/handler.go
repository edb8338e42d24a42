package public

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	locapp "github.com/loc8r/loc8r-services/api/internal/locations/application"
)

// Handler wires public HTTP endpoints to application services.
type Handler struct {
	logger           *log.Logger
	locationQueries  locapp.LocationQueryService
	locationCommands locapp.LocationCommandService
	reviews          locapp.ReviewService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger           *log.Logger
	LocationQueries  locapp.LocationQueryService
	LocationCommands locapp.LocationCommandService
	Reviews          locapp.ReviewService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:           cfg.Logger,
		locationQueries:  cfg.LocationQueries,
		locationCommands: cfg.LocationCommands,
		reviews:          cfg.Reviews,
	}
}

// Register mounts all public routes onto the router. Review mutations go
// through the auth middleware; reads stay open.
func (h *Handler) Register(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Get("/locations", h.locationListHandler())
	r.Post("/locations", h.locationCreateHandler())
	r.Get("/locations/{locationid}", h.locationDetailHandler())
	r.With(authMiddleware).Post("/locations/{locationid}/reviews", h.reviewCreateHandler())
	r.Get("/locations/{locationid}/reviews/{reviewid}", h.reviewDetailHandler())
	r.With(authMiddleware).Put("/locations/{locationid}/reviews/{reviewid}", h.reviewUpdateHandler())
	r.With(authMiddleware).Delete("/locations/{locationid}/reviews/{reviewid}", h.reviewDeleteHandler())
}
