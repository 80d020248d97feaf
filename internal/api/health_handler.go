package api

import (
	"net/http"
	"time"

	corelog "gatehouse/internal/core/log"
	"gatehouse/internal/routing"
	"gatehouse/internal/storage/connmgr"
	"gatehouse/internal/version"
)

// StorageHealth reports the connection state of every storage driver.
type StorageHealth interface {
	Status() []connmgr.Status
	Ready() bool
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp time.Time        `json:"timestamp"`
	Drivers   []connmgr.Status `json:"drivers"`
}

// HealthController reports liveness plus per-driver readiness. It answers
// 503 while any driver is not ready.
type HealthController struct {
	responder
	storage StorageHealth
	started time.Time
}

func NewHealthController(storage StorageHealth, logger corelog.Logger) *HealthController {
	return &HealthController{
		responder: newResponder(HealthControllerName, logger),
		storage:   storage,
		started:   time.Now(),
	}
}

func (c *HealthController) Routes() []routing.Descriptor {
	return []routing.Descriptor{
		{Path: "/health", Handler: c.health},
	}
}

func (c *HealthController) health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "healthy",
		Version:   version.GetShortVersion(),
		Uptime:    time.Since(c.started).Truncate(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Drivers:   c.storage.Status(),
	}
	status := http.StatusOK
	if !c.storage.Ready() {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, resp)
}
