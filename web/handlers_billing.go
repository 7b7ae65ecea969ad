package web

import (
	"io"
	"net/http"
)

type checkoutRequest struct {
	PlanID string `json:"planId"`
}

// BillingCheckout creates a payment provider checkout session and returns
// the redirect URL.
func (h *Handler) BillingCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	url, err := h.billing.Checkout(r.Context(), currentUser(r.Context()).ID, req.PlanID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}

// BillingCancel cancels the caller's subscription at period end.
func (h *Handler) BillingCancel(w http.ResponseWriter, r *http.Request) {
	if err := h.billing.Cancel(r.Context(), currentUser(r.Context()).ID); err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "cancelling at period end"})
}

// BillingWebhook applies a payment provider event. The provider signature
// header is the only authentication.
func (h *Handler) BillingWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "unreadable payload")
		return
	}
	defer r.Body.Close()

	signature := r.Header.Get("Stripe-Signature")
	if err := h.billing.HandleWebhook(r.Context(), payload, signature); err != nil {
		h.logger.Warn().Err(err).Msg("webhook rejected")
		respondError(w, http.StatusBadRequest, "webhook rejected")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
