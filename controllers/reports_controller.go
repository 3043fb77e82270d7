package controllers

import (
	"net/http"
	"time"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/reports"
	"github.com/cogitex/rfbooking/schedule"
)

type ReportsController struct{ *Srv }

func GetReportsController(s *Srv) *ReportsController { return &ReportsController{Srv: s} }

// reportRange reads ?from=&to= (date-only), default the last 30 days.
func reportRange(c *app.Ctx) (time.Time, time.Time) {
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
	return from, to
}

func (rc *ReportsController) rows(c *app.Ctx) ([]models.Booking, time.Time, time.Time, bool) {
	from, to := reportRange(c)
	bs, err := rc.Repo.AllBookingsInRange(c.Request.Context(), from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return nil, from, to, false
	}
	return bs, from, to, true
}

func (rc *ReportsController) BookingStats(c *app.Ctx) {
	bs, from, to, ok := rc.rows(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, app.H{"from": from, "to": to, "stats": reports.Stats(bs)})
}

func (rc *ReportsController) EquipmentUsage(c *app.Ctx) {
	bs, from, to, ok := rc.rows(c)
	if !ok {
		return
	}
	es, err := rc.Repo.ListEquipment(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	names := make(map[string]string, len(es))
	for i := range es {
		names[es[i].ID] = es[i].Name
	}
	c.JSON(http.StatusOK, app.H{"from": from, "to": to, "usage": reports.UsageByEquipment(bs, names)})
}

func (rc *ReportsController) UserActivity(c *app.Ctx) {
	bs, from, to, ok := rc.rows(c)
	if !ok {
		return
	}
	ids := make([]string, 0, len(bs))
	seen := make(map[string]bool, len(bs))
	for i := range bs {
		if !seen[bs[i].UserID] {
			seen[bs[i].UserID] = true
			ids = append(ids, bs[i].UserID)
		}
	}
	users, err := rc.Repo.UsersByIDs(c.Request.Context(), ids)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"from": from, "to": to, "activity": reports.ActivityByUser(bs, users)})
}
