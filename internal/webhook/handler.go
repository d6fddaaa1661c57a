// Package webhook is the external-trigger adapter (C9): it verifies
// inbound callbacks from the external delayed-callback service and turns
// them into single-reminder fire decisions or cleanup sweeps, exposed over
// the two HTTP routes named in the external interfaces.
package webhook

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"remindo/internal/engine"
)

const signatureHeader = "X-Signature"

// Handler wires the engine to the two webhook endpoints.
type Handler struct {
	engine   *engine.Engine
	verifier *Verifier
}

func NewHandler(e *engine.Engine, v *Verifier) *Handler {
	return &Handler{engine: e, verifier: v}
}

// Routes mounts the handler's endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/webhooks/reminder-alert", h.ReminderAlert)
	r.Post("/webhooks/cleanup", h.Cleanup)
}

type reminderAlertRequest struct {
	ReminderID  int64  `json:"reminderId"`
	AlertTime   string `json:"alertTime,omitempty"`
	IsRecurring bool   `json:"isRecurring,omitempty"`
}

type statusResponse struct {
	Status        string `json:"status"`
	Reason        string `json:"reason,omitempty"`
	ReminderTitle string `json:"reminderTitle,omitempty"`
}

// ReminderAlert handles POST /webhooks/reminder-alert. Signature
// verification happens before any store access; a failure returns 401
// with no side effects.
func (h *Handler) ReminderAlert(w http.ResponseWriter, r *http.Request) {
	body, sig, err := readSignedBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.verifier.Verify(body, sig) {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	var req reminderAlertRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.engine.FireByID(r.Context(), req.ReminderID, req.IsRecurring)
	if err != nil {
		log.Printf("webhook: fire reminder %d failed: %v", req.ReminderID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:        result.Status,
		Reason:        result.Reason,
		ReminderTitle: result.ReminderTitle,
	})
}

// Cleanup handles POST /webhooks/cleanup, the only GC path available in
// event mode.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	body, sig, err := readSignedBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.verifier.Verify(body, sig) {
		writeError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	result, err := h.engine.Cleanup(r.Context())
	if err != nil {
		log.Printf("webhook: cleanup failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{
		"checked":     result.Checked,
		"deactivated": result.Deactivated,
	})
}

const maxBodyBytes = 1 << 20

func readSignedBody(r *http.Request) (body []byte, signature string, err error) {
	body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, "", err
	}
	return body, r.Header.Get(signatureHeader), nil
}
