package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

type HealthController struct {
	Service string
	Version string
	Checks  map[string]Pinger
}

type healthResponse struct {
	Status  string            `json:"status"`
	Service string            `json:"service,omitempty"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// Health is the liveness probe.
func (ctrl *HealthController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Service: ctrl.Service, Version: ctrl.Version})
}

// Ready runs every dependency check and answers 503 when one fails.
func (ctrl *HealthController) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	resp := healthResponse{Status: "ok", Checks: make(map[string]string, len(ctrl.Checks))}
	status := http.StatusOK
	for name, ping := range ctrl.Checks {
		if err := ping(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	c.JSON(status, resp)
}
