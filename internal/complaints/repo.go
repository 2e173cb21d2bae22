package complaints

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a complaints repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error) {
	if complaint.ID == uuid.Nil {
		complaint.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Product").
		Preload("Engineer").
		Preload("Consumptions").
		Where("id = ?", id).
		First(&complaint).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Complaint{})
	return res.RowsAffected, res.Error
}

func (r *repository) CreateConsumptions(ctx context.Context, rows []models.SparePartConsumption) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		if rows[i].ID == uuid.Nil {
			rows[i].ID = uuid.New()
		}
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

func (r *repository) DeleteConsumptionsByComplaint(ctx context.Context, complaintID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("complaint_id = ?", complaintID).
		Delete(&models.SparePartConsumption{}).Error
}

func (r *repository) FindConsumptionSummaries(ctx context.Context, complaintID uuid.UUID) ([]ConsumptionSummary, error) {
	var rows []ConsumptionSummary
	err := r.db.WithContext(ctx).
		Table("spare_part_consumptions c").
		Select("c.spare_part_id, p.name AS part_name, p.code AS part_code, c.quantity_used").
		Joins("JOIN spare_parts p ON p.id = c.spare_part_id").
		Where("c.complaint_id = ?", complaintID).
		Order("c.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).Where("phone = ?", phone).First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindProductBySerial(ctx context.Context, serial string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("serial = ?", serial).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) EngineerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Engineer{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, filters ComplaintFilters) (*ComplaintList, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(params.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Table("complaints cp").
		Select(strings.Join([]string{
			"cp.id",
			"cp.status",
			"cp.kind",
			"cp.description",
			"cp.engineer_id",
			"cp.created_at",
			"cp.updated_at",
			"cu.name AS customer_name",
			"cu.phone AS customer_phone",
			"pr.brand AS product_brand",
			"pr.model AS product_model",
			"pr.serial AS product_serial",
			"en.name AS engineer_name",
		}, ", ")).
		Joins("JOIN customers cu ON cu.id = cp.customer_id").
		Joins("JOIN products pr ON pr.id = cp.product_id").
		Joins("LEFT JOIN engineers en ON en.id = cp.engineer_id")

	if filters.Status != nil {
		qb = qb.Where("cp.status = ?", *filters.Status)
	}
	if filters.Kind != nil {
		qb = qb.Where("cp.kind = ?", *filters.Kind)
	}
	if filters.EngineerID != nil {
		qb = qb.Where("cp.engineer_id = ?", *filters.EngineerID)
	}
	if filters.DateFrom != nil {
		qb = qb.Where("cp.created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		qb = qb.Where("cp.created_at <= ?", *filters.DateTo)
	}
	if search := strings.TrimSpace(filters.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(cu.name) LIKE ? OR LOWER(cu.phone) LIKE ? OR LOWER(pr.serial) LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(cp.created_at < ?) OR (cp.created_at = ? AND cp.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("cp.created_at DESC").Order("cp.id DESC").Limit(limitWithBuffer)

	var records []complaintSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}.Encode()
	}

	summaries := make([]ComplaintSummary, 0, len(resultRows))
	for _, record := range resultRows {
		summaries = append(summaries, record.toSummary())
	}

	return &ComplaintList{
		Complaints: summaries,
		NextCursor: nextCursor,
	}, nil
}

type complaintSummaryRecord struct {
	ID            uuid.UUID
	Status        string
	Kind          string
	Description   string
	EngineerID    *uuid.UUID
	CustomerName  string
	CustomerPhone string
	ProductBrand  string
	ProductModel  string
	ProductSerial string
	EngineerName  sql.NullString
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r complaintSummaryRecord) toSummary() ComplaintSummary {
	summary := ComplaintSummary{
		ID:            r.ID,
		Status:        enums.ComplaintStatus(r.Status),
		Kind:          enums.ComplaintKind(r.Kind),
		Description:   r.Description,
		CustomerName:  r.CustomerName,
		CustomerPhone: r.CustomerPhone,
		ProductBrand:  r.ProductBrand,
		ProductModel:  r.ProductModel,
		ProductSerial: r.ProductSerial,
		EngineerID:    r.EngineerID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if r.EngineerName.Valid {
		name := r.EngineerName.String
		summary.EngineerName = &name
	}
	return summary
}
