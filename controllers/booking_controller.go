package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/schedule"
)

type BookingController struct{ *Srv }

func GetBookingController(s *Srv) *BookingController { return &BookingController{Srv: s} }

type bookingInput struct {
	EquipmentID string `json:"equipmentId" binding:"required"`
	StartDate   string `json:"startDate" binding:"required"` // 2006-01-02
	EndDate     string `json:"endDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"` // HH:MM
	EndTime     string `json:"endTime" binding:"required"`
	Description string `json:"description"`
}

func (in *bookingInput) span() (schedule.Span, error) {
	sd, err := time.ParseInLocation("2006-01-02", in.StartDate, time.UTC)
	if err != nil {
		return schedule.Span{}, err
	}
	ed, err := time.ParseInLocation("2006-01-02", in.EndDate, time.UTC)
	if err != nil {
		return schedule.Span{}, err
	}
	st, err := schedule.ParseTimeOfDay(in.StartTime)
	if err != nil {
		return schedule.Span{}, err
	}
	et, err := schedule.ParseTimeOfDay(in.EndTime)
	if err != nil {
		return schedule.Span{}, err
	}
	return schedule.Span{StartDate: sd, EndDate: ed, StartTime: st, EndTime: et}, nil
}

// checkSpan applies the business limits shared by create and update.
func (bc *BookingController) checkSpan(sp schedule.Span) string {
	if err := sp.Validate(); err != nil {
		return "end must be after start"
	}
	if sp.StartDate.Before(schedule.Date(time.Now())) {
		return "booking starts in the past"
	}
	days := int(sp.EndDate.Sub(sp.StartDate).Hours()/24) + 1
	if days > bc.Cfg.BookingMaxDays {
		return "booking exceeds " + strconv.Itoa(bc.Cfg.BookingMaxDays) + " days"
	}
	return ""
}

func (bc *BookingController) Create(c *app.Ctx) {
	uid, ok := userIDFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	var in bookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	sp, err := in.span()
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if msg := bc.checkSpan(sp); msg != "" {
		c.JSON(http.StatusBadRequest, app.H{"error": msg})
		return
	}

	n, err := bc.Repo.CountUserBookingsCreatedToday(c.Request.Context(), uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	if n >= int64(bc.Cfg.BookingDailyLimit) {
		c.JSON(http.StatusTooManyRequests, app.H{"error": "daily booking limit reached"})
		return
	}

	b := &models.Booking{
		ID:          uuid.NewString(),
		UserID:      uid,
		EquipmentID: in.EquipmentID,
		StartDate:   sp.StartDate,
		EndDate:     sp.EndDate,
		StartTime:   sp.StartTime.String(),
		EndTime:     sp.EndTime.String(),
		Description: in.Description,
	}
	conflicts, err := bc.Repo.CreateBooking(c.Request.Context(), b)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrBookingConflict):
			c.JSON(http.StatusConflict, app.H{"error": "time window already booked", "conflicts": conflicts})
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": "equipment not found"})
		case errors.Is(err, schedule.ErrInvalidSpan):
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (bc *BookingController) Update(c *app.Ctx) {
	uid, _ := userIDFrom(c)
	b, ok := bc.loadOwned(c, uid)
	if !ok {
		return
	}
	if b.Status != models.BookingActive {
		c.JSON(http.StatusBadRequest, app.H{"error": "only active bookings can be changed"})
		return
	}

	var in bookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if in.EquipmentID != b.EquipmentID {
		c.JSON(http.StatusBadRequest, app.H{"error": "equipment cannot be changed, cancel and rebook"})
		return
	}
	sp, err := in.span()
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if msg := bc.checkSpan(sp); msg != "" {
		c.JSON(http.StatusBadRequest, app.H{"error": msg})
		return
	}

	b.StartDate, b.EndDate = sp.StartDate, sp.EndDate
	b.StartTime, b.EndTime = sp.StartTime.String(), sp.EndTime.String()
	b.Description = in.Description
	conflicts, err := bc.Repo.UpdateBooking(c.Request.Context(), b)
	if err != nil {
		if errors.Is(err, db.ErrBookingConflict) {
			c.JSON(http.StatusConflict, app.H{"error": "time window already booked", "conflicts": conflicts})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}

func (bc *BookingController) Cancel(c *app.Ctx) {
	uid, _ := userIDFrom(c)
	b, ok := bc.loadOwned(c, uid)
	if !ok {
		return
	}
	cancelled, err := bc.Repo.CancelBooking(c.Request.Context(), b.ID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrAlreadyCancelled):
			c.JSON(http.StatusBadRequest, app.H{"error": "already cancelled"})
		case errors.Is(err, db.ErrBookingFinished):
			c.JSON(http.StatusBadRequest, app.H{"error": "booking already completed"})
		default:
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, cancelled)
}

func (bc *BookingController) Get(c *app.Ctx) {
	uid, _ := userIDFrom(c)
	if b, ok := bc.loadOwned(c, uid); ok {
		c.JSON(http.StatusOK, b)
	}
}

// loadOwned fetches the booking and enforces owner-or-manager access.
func (bc *BookingController) loadOwned(c *app.Ctx, uid string) (*models.Booking, bool) {
	b, err := bc.Repo.FindBookingByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "not found"})
		} else {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		}
		return nil, false
	}
	if b.UserID != uid && !bc.canManage(c, b.EquipmentID) {
		c.JSON(http.StatusForbidden, app.H{"error": "forbidden"})
		return nil, false
	}
	return b, true
}

// canManage: admins reach every booking, managers only those on equipment
// they are assigned to.
func (bc *BookingController) canManage(c *app.Ctx, equipmentID string) bool {
	v, _ := c.Get("role")
	switch v {
	case models.RoleAdmin:
		return true
	case models.RoleManager:
		uid, _ := userIDFrom(c)
		ok, err := bc.Repo.ManagesEquipment(c.Request.Context(), uid, equipmentID)
		return err == nil && ok
	}
	return false
}

func isManager(c *app.Ctx) bool {
	v, _ := c.Get("role")
	r, _ := v.(string)
	return r == models.RoleAdmin || r == models.RoleManager
}

func (bc *BookingController) List(c *app.Ctx) {
	uid, _ := userIDFrom(c)
	userFilter := c.Query("userId")
	// Plain users only ever see their own bookings.
	if !isManager(c) {
		userFilter = uid
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	bs, total, err := bc.Repo.ListBookings(c.Request.Context(),
		userFilter, c.Query("equipmentId"), c.Query("status"), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"bookings": bs, "total": total})
}

// Availability answers the pre-flight question behind the booking form: is
// this window free, and if not, what is the nearest one that is?
func (bc *BookingController) Availability(c *app.Ctx) {
	equipmentID := c.Param("id")
	in := bookingInput{
		EquipmentID: equipmentID,
		StartDate:   c.Query("startDate"),
		EndDate:     c.Query("endDate"),
		StartTime:   c.DefaultQuery("startTime", "00:00"),
		EndTime:     c.DefaultQuery("endTime", "24:00"),
	}
	sp, err := in.span()
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	conflicts, err := bc.Detector.Conflicts(c.Request.Context(), equipmentID, sp, c.Query("excludeBookingId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	out := app.H{"available": len(conflicts) == 0, "conflicts": conflicts}

	if len(conflicts) > 0 {
		today := schedule.Date(time.Now())
		probe := func(ctx context.Context, cand schedule.Span) (bool, error) {
			if cand.StartDate.Before(today) {
				return false, nil
			}
			has, err := bc.Detector.HasConflict(ctx, equipmentID, cand, "")
			return !has, err
		}
		alt, err := schedule.FindAlternative(c.Request.Context(), probe, sp, bc.Cfg.HorizonDays)
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		if alt != nil {
			out["alternative"] = alt
		} else {
			out["noAlternative"] = true
		}
	}
	c.JSON(http.StatusOK, out)
}
