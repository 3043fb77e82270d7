package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/schedule"
)

type AssistantController struct{ *Srv }

func GetAssistantController(s *Srv) *AssistantController { return &AssistantController{Srv: s} }

// Analyze runs the recommendation pipeline for one natural-language request.
// An unreachable model degrades the answer, it never errors out.
func (sc *AssistantController) Analyze(c *app.Ctx) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	if !sc.Cfg.AIEnabled {
		c.JSON(http.StatusServiceUnavailable, app.H{"error": "assistant disabled"})
		return
	}

	allowed, err := sc.Limiter.Allow(c.Request.Context(), "ai", uid, sc.Cfg.AIRateLimit, sc.Cfg.AIRateWindow)
	if err != nil {
		// Redis down: fall back to the audit log so the limit still holds.
		since := time.Now().Add(-sc.Cfg.AIRateWindow)
		n, dbErr := sc.Repo.CountUserQueriesSince(c.Request.Context(), uid, since)
		if dbErr != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": dbErr.Error()})
			return
		}
		allowed = n < int64(sc.Cfg.AIRateLimit)
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, app.H{"error": "AI query limit reached, try again later"})
		return
	}

	var in struct {
		Prompt    string `json:"prompt" binding:"required"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
		StartTime string `json:"startTime"`
		EndTime   string `json:"endTime"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	var requested *schedule.Span
	if in.StartDate != "" {
		bi := bookingInput{
			StartDate: in.StartDate,
			EndDate:   in.EndDate,
			StartTime: in.StartTime,
			EndTime:   in.EndTime,
		}
		if bi.EndDate == "" {
			bi.EndDate = bi.StartDate
		}
		if bi.StartTime == "" {
			bi.StartTime = "00:00"
		}
		if bi.EndTime == "" {
			bi.EndTime = "24:00"
		}
		sp, err := bi.span()
		if err != nil {
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
			return
		}
		requested = &sp
	}

	res, err := sc.Assistant.Analyze(c.Request.Context(), uid, in.Prompt, requested)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

// Chat is the admin console's direct line to the model.
func (sc *AssistantController) Chat(c *app.Ctx) {
	uid, _ := userIDFrom(c)
	var in struct {
		Message string `json:"message" binding:"required"`
		System  string `json:"system"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	text, inTok, outTok, err := sc.Assistant.Chat(c.Request.Context(), uid, in.Message, in.System)
	if err != nil {
		c.JSON(http.StatusBadGateway, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"response": text, "inputTokens": inTok, "outputTokens": outTok})
}

// Usage returns the daily aggregates for a date range, default last 30 days.
func (sc *AssistantController) Usage(c *app.Ctx) {
	to := schedule.Date(time.Now())
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		if d, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
			from = d
		}
	}
	if v := c.Query("to"); v != "" {
		if d, err := time.ParseInLocation("2006-01-02", v, time.UTC); err == nil {
			to = d
		}
	}
	us, err := sc.Repo.UsageRange(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"usage": us})
}

func (sc *AssistantController) Logs(c *app.Ctx) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	ls, err := sc.Repo.ListQueryLogs(c.Request.Context(), c.Query("userId"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"logs": ls})
}
