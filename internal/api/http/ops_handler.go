package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"dilsedaan-backend/internal/domain"
	"dilsedaan-backend/internal/logger"
	"dilsedaan-backend/internal/security"
	"dilsedaan-backend/internal/service"

	"github.com/gorilla/mux"
)

// OpsHandler exposes the operational surface: health, engine statistics,
// campaign balances, the urgent withdrawal queue and a manual trigger for
// the recurring charge batch. The donor/public API lives elsewhere.
type OpsHandler struct {
	recurring  service.RecurringDonationService
	withdrawal service.WithdrawalService
	tokens     security.TokenManager
}

func NewOpsHandler(recurring service.RecurringDonationService, withdrawal service.WithdrawalService, tokens security.TokenManager) *OpsHandler {
	return &OpsHandler{
		recurring:  recurring,
		withdrawal: withdrawal,
		tokens:     tokens,
	}
}

// Router builds the mux router with auth applied to everything under /api.
func (h *OpsHandler) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", h.health).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.requireAdminToken)
	api.HandleFunc("/stats/recurring", h.recurringStats).Methods(http.MethodGet)
	api.HandleFunc("/stats/withdrawals", h.withdrawalStats).Methods(http.MethodGet)
	api.HandleFunc("/campaigns/{id:[0-9]+}/balance", h.campaignBalance).Methods(http.MethodGet)
	api.HandleFunc("/withdrawals/urgent", h.urgentWithdrawals).Methods(http.MethodGet)
	api.HandleFunc("/admin/recurring/process-due", h.processDue).Methods(http.MethodPost)
	return r
}

func (h *OpsHandler) requireAdminToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		if _, err := h.tokens.ValidateToken(token); err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *OpsHandler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *OpsHandler) recurringStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.recurring.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *OpsHandler) withdrawalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.withdrawal.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *OpsHandler) campaignBalance(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid campaign id")
		return
	}
	balance, err := h.withdrawal.AvailableBalance(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"campaign_id": id, "available_balance": balance})
}

func (h *OpsHandler) urgentWithdrawals(w http.ResponseWriter, r *http.Request) {
	urgent, err := h.withdrawal.ListUrgent(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, urgent)
}

func (h *OpsHandler) processDue(w http.ResponseWriter, r *http.Request) {
	summary, err := h.recurring.ProcessDue(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInsufficientFunds):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
