package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/stagebeat/workshop-notifier/internal/service"
	"github.com/stagebeat/workshop-notifier/pkg/tracing"
)

type DeviceHandler struct {
	svc    service.DeviceService
	logger *slog.Logger
}

func NewDeviceHandler(svc service.DeviceService, logger *slog.Logger) *DeviceHandler {
	return &DeviceHandler{svc: svc, logger: logger}
}

// Register handles POST /devices
func (h *DeviceHandler) Register(w http.ResponseWriter, r *http.Request) {
	tracer := tracing.NewTracer(tracing.GetTracer("device-handler"))
	ctx, span := tracer.StartServerSpan(r.Context(), "RegisterDevice")
	defer span.End()

	var body struct {
		UserID   string `json:"user_id"`
		Token    string `json:"token"`
		Platform string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.logger.Warn("Invalid request body for device registration")
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	dt, err := h.svc.Register(ctx, body.UserID, body.Token, body.Platform)
	if err != nil {
		tracer.RecordError(span, err)
		h.logger.Error("Register failed", "user_id", body.UserID, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(dt)
}
