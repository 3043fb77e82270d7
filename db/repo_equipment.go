package db

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/cogitex/rfbooking/models"
)

// Equipment

func (r *Repo) CreateEquipment(ctx context.Context, e *models.Equipment) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *Repo) FindEquipmentByID(ctx context.Context, id string) (*models.Equipment, error) {
	var e models.Equipment
	if err := r.DB.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Repo) ListEquipment(ctx context.Context) ([]models.Equipment, error) {
	var es []models.Equipment
	err := r.DB.WithContext(ctx).Order("name").Find(&es).Error
	return es, err
}

// ListActiveEquipment feeds the assistant's catalog cache. Stable order keeps
// the cache, the filter and the LLM prompt deterministic.
func (r *Repo) ListActiveEquipment(ctx context.Context) ([]models.Equipment, error) {
	var es []models.Equipment
	err := r.DB.WithContext(ctx).
		Where("is_active = TRUE").
		Order("name").
		Find(&es).Error
	return es, err
}

func (r *Repo) UpdateEquipment(ctx context.Context, id string, fields map[string]interface{}) error {
	return r.DB.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// DeactivateEquipment soft-deletes: history keeps its bookings.
func (r *Repo) DeactivateEquipment(ctx context.Context, id string) error {
	return r.DB.WithContext(ctx).
		Model(&models.Equipment{}).
		Where("id = ?", id).
		Update("is_active", false).Error
}

// Equipment managers

// AssignEquipmentManager is idempotent: re-assigning an existing pair is a
// no-op.
func (r *Repo) AssignEquipmentManager(ctx context.Context, m *models.EquipmentManager) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "equipment_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(m).Error
}

func (r *Repo) UnassignEquipmentManager(ctx context.Context, equipmentID, userID string) error {
	return r.DB.WithContext(ctx).
		Where("equipment_id = ? AND user_id = ?", equipmentID, userID).
		Delete(&models.EquipmentManager{}).Error
}

// ListEquipmentManagers returns the manager accounts assigned to one piece of
// equipment.
func (r *Repo) ListEquipmentManagers(ctx context.Context, equipmentID string) ([]models.User, error) {
	var us []models.User
	err := r.DB.WithContext(ctx).
		Joins("JOIN "+models.EquipmentManagerTable+" em ON em.user_id = "+models.UserTable+".id").
		Where("em.equipment_id = ?", equipmentID).
		Order("email").
		Find(&us).Error
	return us, err
}

// ManagesEquipment reports whether the user is assigned as manager of the
// given equipment.
func (r *Repo) ManagesEquipment(ctx context.Context, userID, equipmentID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.EquipmentManager{}).
		Where("user_id = ? AND equipment_id = ?", userID, equipmentID).
		Count(&n).Error
	return n > 0, err
}
