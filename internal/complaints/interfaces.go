package complaints

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

// Repository defines persistence operations for complaints and their
// consumption audit rows. Customer and product lookups live here too because
// complaint intake resolves both inside the same transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context, params pagination.Params, filters ComplaintFilters) (*ComplaintList, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	CreateConsumptions(ctx context.Context, rows []models.SparePartConsumption) error
	FindConsumptionSummaries(ctx context.Context, complaintID uuid.UUID) ([]ConsumptionSummary, error)
	DeleteConsumptionsByComplaint(ctx context.Context, complaintID uuid.UUID) error
	FindCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindProductBySerial(ctx context.Context, serial string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	EngineerExists(ctx context.Context, id uuid.UUID) (bool, error)
}
