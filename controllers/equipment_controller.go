package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/app"
	"github.com/cogitex/rfbooking/models"
)

type EquipmentController struct{ *Srv }

func GetEquipmentController(s *Srv) *EquipmentController { return &EquipmentController{Srv: s} }

func (ec *EquipmentController) List(c *app.Ctx) {
	// Everyone sees the active catalog; ?all=1 is for admins and includes
	// deactivated rows.
	if c.Query("all") == "1" && isManager(c) {
		es, err := ec.Repo.ListEquipment(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, app.H{"equipment": es})
		return
	}
	es, err := ec.Catalog.Get(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"equipment": es})
}

func (ec *EquipmentController) Get(c *app.Ctx) {
	e, err := ec.Repo.FindEquipmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, e)
}

type equipmentInput struct {
	Name                string     `json:"name" binding:"required"`
	Description         string     `json:"description"`
	Location            string     `json:"location"`
	NextCalibrationDate *time.Time `json:"nextCalibrationDate"`
}

func (ec *EquipmentController) Create(c *app.Ctx) {
	var in equipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	e := &models.Equipment{
		ID:                  uuid.NewString(),
		Name:                in.Name,
		Description:         in.Description,
		Location:            in.Location,
		NextCalibrationDate: in.NextCalibrationDate,
		IsActive:            true,
	}
	if err := ec.Repo.CreateEquipment(c.Request.Context(), e); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// The catalog must be stale-free before the admin sees the response.
	ec.Catalog.Invalidate()
	c.JSON(http.StatusCreated, e)
}

func (ec *EquipmentController) Update(c *app.Ctx) {
	id := c.Param("id")
	var in equipmentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	fields := map[string]interface{}{
		"name":                  in.Name,
		"description":           in.Description,
		"location":              in.Location,
		"next_calibration_date": in.NextCalibrationDate,
	}
	if err := ec.Repo.UpdateEquipment(c.Request.Context(), id, fields); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ec.Catalog.Invalidate()

	e, err := ec.Repo.FindEquipmentByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, e)
}

// Manager assignment. Admins act everywhere; a manager's reach over other
// people's bookings is limited to the equipment assigned here.

func (ec *EquipmentController) ListManagers(c *app.Ctx) {
	us, err := ec.Repo.ListEquipmentManagers(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"managers": us})
}

func (ec *EquipmentController) AssignManager(c *app.Ctx) {
	equipmentID := c.Param("id")
	var in struct {
		UserID string `json:"userId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if _, err := ec.Repo.FindEquipmentByID(c.Request.Context(), equipmentID); err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "equipment not found"})
		return
	}
	u, err := ec.Repo.FindUserByID(c.Request.Context(), in.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "user not found"})
		return
	}
	if !u.IsManager() {
		c.JSON(http.StatusBadRequest, app.H{"error": "only manager accounts can be assigned"})
		return
	}
	m := &models.EquipmentManager{ID: uuid.NewString(), EquipmentID: equipmentID, UserID: u.ID}
	if err := ec.Repo.AssignEquipmentManager(c.Request.Context(), m); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (ec *EquipmentController) UnassignManager(c *app.Ctx) {
	err := ec.Repo.UnassignEquipmentManager(c.Request.Context(), c.Param("id"), c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// Delete deactivates; bookings keep their history.
func (ec *EquipmentController) Delete(c *app.Ctx) {
	if err := ec.Repo.DeactivateEquipment(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	ec.Catalog.Invalidate()
	c.JSON(http.StatusOK, app.H{"ok": true})
}
