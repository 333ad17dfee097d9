package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dorfportal/reminder-service/internal/scheduler"
)

// SchedulerHandler exposes the reminder clock to operators: a status
// snapshot plus explicit start/stop. The clock itself runs in-process; this
// surface exists for inspection and manual intervention only.
//
// baseCtx is the process-lifetime context, not the request context: cycles
// started here must outlive the HTTP request that triggered them.
type SchedulerHandler struct {
	clock   *scheduler.Clock
	baseCtx context.Context
}

func NewSchedulerHandler(baseCtx context.Context, clock *scheduler.Clock) *SchedulerHandler {
	return &SchedulerHandler{clock: clock, baseCtx: baseCtx}
}

type schedulerStatusResponse struct {
	IsRunning   bool    `json:"is_running"`
	LastRunTime *string `json:"last_run_time"`
	RunCount    uint64  `json:"run_count"`
	NextRunIn   *string `json:"next_run_in"`
}

func statusResponse(s scheduler.Status) schedulerStatusResponse {
	resp := schedulerStatusResponse{
		IsRunning: s.IsRunning,
		RunCount:  s.RunCount,
	}
	if s.LastRunTime != nil {
		t := s.LastRunTime.Format(time.RFC3339)
		resp.LastRunTime = &t
	}
	if s.NextRunIn != nil {
		d := s.NextRunIn.String()
		resp.NextRunIn = &d
	}
	return resp
}

// Status handles GET /api/v1/scheduler
func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, statusResponse(h.clock.Status()))
}

// Start handles POST /api/v1/scheduler/start
func (h *SchedulerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.clock.Start(h.baseCtx)
	respondJSON(w, http.StatusAccepted, statusResponse(h.clock.Status()))
}

// Stop handles POST /api/v1/scheduler/stop
func (h *SchedulerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.clock.Stop()
	respondJSON(w, http.StatusAccepted, statusResponse(h.clock.Status()))
}
