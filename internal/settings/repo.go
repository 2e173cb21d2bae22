package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
)

// Repository defines persistence operations for system settings and the
// complaint type catalog.
type Repository interface {
	FindAll(ctx context.Context) ([]models.SystemSetting, error)
	FindByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	Save(ctx context.Context, key, value string, tag enums.SettingType) (int64, error)
	ListComplaintTypes(ctx context.Context) ([]models.ComplaintTypeEntry, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindAll(ctx context.Context) ([]models.SystemSetting, error) {
	var rows []models.SystemSetting
	err := r.db.WithContext(ctx).Order("setting_key ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	var row models.SystemSetting
	err := r.db.WithContext(ctx).Where("setting_key = ?", key).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) Save(ctx context.Context, key, value string, tag enums.SettingType) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SystemSetting{}).
		Where("setting_key = ?", key).
		Updates(map[string]any{"setting_value": value, "setting_type": tag})
	return res.RowsAffected, res.Error
}

func (r *repository) ListComplaintTypes(ctx context.Context) ([]models.ComplaintTypeEntry, error) {
	var rows []models.ComplaintTypeEntry
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
