package webhook

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"remindo/internal/engine"
)

// NewRouter builds the HTTP surface exposed in event mode: the two
// webhook endpoints named in the external interfaces, nothing else. CRUD
// on reminders and any other outward-facing surface is an external
// collaborator's concern.
func NewRouter(e *engine.Engine, v *Verifier) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	NewHandler(e, v).Routes(r)
	return r
}
