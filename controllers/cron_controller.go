package controllers

import (
	"errors"
	"net/http"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/jobs"
)

type CronController struct {
	*Srv
	Runner *jobs.Runner
}

func GetCronController(s *Srv, runner *jobs.Runner) *CronController {
	return &CronController{Srv: s, Runner: runner}
}

func (cc *CronController) ListJobs(c *app.Ctx) {
	js, err := cc.Repo.ListCronJobs(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"jobs": js})
}

// RunJob fires one job immediately. The run is synchronous, the status row
// reflects it by the time the response returns. A job that ran and failed is
// still a completed request: the outcome lives in the status row, not in the
// HTTP status.
func (cc *CronController) RunJob(c *app.Ctx) {
	key := c.Param("key")
	runErr := cc.Runner.RunNow(key)
	if errors.Is(runErr, jobs.ErrUnknownJob) {
		c.JSON(http.StatusNotFound, app.H{"error": runErr.Error()})
		return
	}
	out := app.H{"ok": runErr == nil}
	if runErr != nil {
		out["error"] = runErr.Error()
	}
	if j, err := cc.Repo.FindCronJob(c.Request.Context(), key); err == nil {
		out["job"] = j
	}
	c.JSON(http.StatusOK, out)
}
