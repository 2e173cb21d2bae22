package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/types"
)

// LowStockThresholdKey names the setting read by the spare parts low stock
// report.
const LowStockThresholdKey = "low_stock_threshold"

const cacheTTL = 5 * time.Minute
const cacheName = "settings"

// Cache is the subset of the redis client used for settings reads. A nil
// cache disables caching; every read goes to the store.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	CacheKey(name string) string
}

// SettingView is one key with its typed value.
type SettingView struct {
	Key   string             `json:"key"`
	Value types.SettingValue `json:"value"`
}

// ComplaintTypeView is one catalog entry served to pickers.
type ComplaintTypeView struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Service defines system settings operations.
type Service interface {
	All(ctx context.Context) ([]SettingView, error)
	Get(ctx context.Context, key string) (*SettingView, error)
	Update(ctx context.Context, key string, value any) (*SettingView, error)
	ComplaintTypes(ctx context.Context) ([]ComplaintTypeView, error)
	LowStockThreshold(ctx context.Context) (int, error)
}

type service struct {
	repo  Repository
	cache Cache
}

// NewService builds a settings service. The cache is optional.
func NewService(repo Repository, cache Cache) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo, cache: cache}, nil
}

func (s *service) All(ctx context.Context) ([]SettingView, error) {
	if views, ok := s.cachedAll(ctx); ok {
		return views, nil
	}
	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load settings")
	}
	views := make([]SettingView, 0, len(rows))
	for _, row := range rows {
		view, err := toView(row)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	s.storeAll(ctx, rows)
	return views, nil
}

func (s *service) Get(ctx context.Context, key string) (*SettingView, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	row, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load setting")
	}
	view, err := toView(*row)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Update writes a typed value under an existing key. The stored type tag
// follows the value's type, so a key can change type over its lifetime.
func (s *service) Update(ctx context.Context, key string, value any) (*SettingView, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "setting key required")
	}
	typed, err := types.SettingValueOf(value)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported setting value type")
	}
	rows, err := s.repo.Save(ctx, key, typed.Serialize(), typed.Type)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save setting")
	}
	if rows == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "setting not found")
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, s.cache.CacheKey(cacheName))
	}
	return &SettingView{Key: key, Value: typed}, nil
}

func (s *service) ComplaintTypes(ctx context.Context) ([]ComplaintTypeView, error) {
	rows, err := s.repo.ListComplaintTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint types")
	}
	views := make([]ComplaintTypeView, 0, len(rows))
	for _, row := range rows {
		views = append(views, ComplaintTypeView{Key: row.Key, Label: row.Label})
	}
	return views, nil
}

// LowStockThreshold satisfies the spare parts service's threshold source.
func (s *service) LowStockThreshold(ctx context.Context) (int, error) {
	view, err := s.Get(ctx, LowStockThresholdKey)
	if err != nil {
		return 0, err
	}
	if view.Value.Type != enums.SettingTypeNumber {
		return 0, pkgerrors.New(pkgerrors.CodeDependency, "low stock threshold is not numeric")
	}
	return int(view.Value.Number), nil
}

func (s *service) cachedAll(ctx context.Context) ([]SettingView, bool) {
	if s.cache == nil {
		return nil, false
	}
	// cache miss and transport errors both fall back to the store
	raw, err := s.cache.Get(ctx, s.cache.CacheKey(cacheName))
	if err != nil {
		return nil, false
	}
	var rows []models.SystemSetting
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, false
	}
	views := make([]SettingView, 0, len(rows))
	for _, row := range rows {
		view, err := toView(row)
		if err != nil {
			return nil, false
		}
		views = append(views, view)
	}
	return views, true
}

func (s *service) storeAll(ctx context.Context, rows []models.SystemSetting) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, s.cache.CacheKey(cacheName), string(payload), cacheTTL)
}

func toView(row models.SystemSetting) (SettingView, error) {
	value, err := types.ParseSettingValue(row.Value, row.Type)
	if err != nil {
		return SettingView{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse stored setting")
	}
	return SettingView{Key: row.Key, Value: value}, nil
}
