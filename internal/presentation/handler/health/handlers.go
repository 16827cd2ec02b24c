package health

import (
	"net/http"
	"sync/atomic"
	"time"

	"github.com/quizdash/quizdash/internal/infrastructure/json"
)

var (
	startTime       = time.Now()
	healthy   int32 = 1 // 1 = healthy, 0 = unhealthy
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// SetHealthy flips the health flag, e.g. while draining before shutdown.
func SetHealthy(ok bool) {
	var v int32
	if ok {
		v = 1
	}
	atomic.StoreInt32(&healthy, v)
}

// GetHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API, including uptime and current timestamp
// @Tags         health
// @Produce      json
// @Success      200 {object} healthResponse "Service is healthy"
// @Failure      503 {object} healthResponse "Service is unhealthy"
// @Router       /health [get]
// @Router       /healthz [get]
// @Router       /ready [get]
// @Router       /live [get]
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	resp := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(startTime).Round(time.Second).String(),
	}

	if atomic.LoadInt32(&healthy) == 0 {
		status = http.StatusServiceUnavailable
		resp.Status = "unhealthy"
	}

	json.Write(w, status, resp)
}
