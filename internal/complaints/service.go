package complaints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmorenov/servicedesk-backend/pkg/db/models"
	"github.com/dmorenov/servicedesk-backend/pkg/enums"
	pkgerrors "github.com/dmorenov/servicedesk-backend/pkg/errors"
	"github.com/dmorenov/servicedesk-backend/pkg/pagination"
)

// DefaultUnitsPerLine is the quantity charged for a repair line that does not
// name one explicitly.
const DefaultUnitsPerLine = 1

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockDecrementer takes units off a spare part's quantity-on-hand inside the
// caller's transaction. It fails the transaction when stock would go negative.
type StockDecrementer interface {
	Decrement(ctx context.Context, tx *gorm.DB, sparePartID uuid.UUID, qty int) error
}

// Service defines complaint lifecycle operations.
type Service interface {
	Create(ctx context.Context, input CreateComplaintInput) (*ComplaintDetail, error)
	Get(ctx context.Context, id uuid.UUID) (*ComplaintDetail, error)
	List(ctx context.Context, params pagination.Params, filters ComplaintFilters) (*ComplaintList, error)
	AssignEngineer(ctx context.Context, complaintID, engineerID uuid.UUID) error
	BeginInvestigation(ctx context.Context, complaintID uuid.UUID) error
	CompleteRepair(ctx context.Context, complaintID uuid.UUID, input CompleteRepairInput) error
	Delete(ctx context.Context, complaintID uuid.UUID) error
}

type service struct {
	repo  Repository
	tx    txRunner
	stock StockDecrementer
}

// NewService builds a complaints service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockDecrementer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock decrementer required")
	}
	return &service{repo: repo, tx: tx, stock: stock}, nil
}

func (s *service) Create(ctx context.Context, input CreateComplaintInput) (*ComplaintDetail, error) {
	kind, err := enums.ParseComplaintKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown complaint kind")
	}
	phone := strings.TrimSpace(input.Customer.Phone)
	serial := strings.TrimSpace(input.Product.Serial)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer phone required")
	}
	if serial == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product serial required")
	}

	var created *models.Complaint
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := s.resolveCustomer(ctx, repo, input.Customer, phone)
		if err != nil {
			return err
		}
		product, err := s.resolveProduct(ctx, repo, input.Product, serial)
		if err != nil {
			return err
		}
		if input.EngineerID != nil {
			ok, err := repo.EngineerExists(ctx, *input.EngineerID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check engineer")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeNotFound, "engineer not found")
			}
		}

		complaint := &models.Complaint{
			CustomerID:  customer.ID,
			ProductID:   product.ID,
			EngineerID:  input.EngineerID,
			Description: strings.TrimSpace(input.Description),
			Kind:        kind,
			Status:      enums.ComplaintStatusOpen,
		}
		created, err = repo.Create(ctx, complaint)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, created.ID)
}

// resolveCustomer reuses the customer matching the phone, refreshing its
// name/branch, or creates a new row when none exists.
func (s *service) resolveCustomer(ctx context.Context, repo Repository, input CustomerInput, phone string) (*models.Customer, error) {
	existing, err := repo.FindCustomerByPhone(ctx, phone)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up customer")
	}
	customer := &models.Customer{
		Name:   strings.TrimSpace(input.Name),
		Branch: strings.TrimSpace(input.Branch),
		Phone:  phone,
	}
	created, err := repo.CreateCustomer(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
	}
	return created, nil
}

func (s *service) resolveProduct(ctx context.Context, repo Repository, input ProductInput, serial string) (*models.Product, error) {
	existing, err := repo.FindProductBySerial(ctx, serial)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up product")
	}
	product := &models.Product{
		Brand:  strings.TrimSpace(input.Brand),
		Type:   strings.TrimSpace(input.Type),
		Model:  strings.TrimSpace(input.Model),
		Serial: serial,
	}
	created, err := repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ComplaintDetail, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}
	parts, err := s.repo.FindConsumptionSummaries(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load consumptions")
	}
	return toDetail(complaint, parts), nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ComplaintFilters) (*ComplaintList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}
	return list, nil
}

func (s *service) AssignEngineer(ctx context.Context, complaintID, engineerID uuid.UUID) error {
	if complaintID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	if engineerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "engineer id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		complaint, err := loadComplaint(ctx, repo, complaintID)
		if err != nil {
			return err
		}
		if complaint.Status == enums.ComplaintStatusClosed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "complaint already closed")
		}
		ok, err := repo.EngineerExists(ctx, engineerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check engineer")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "engineer not found")
		}
		if err := repo.Update(ctx, complaintID, map[string]any{"engineer_id": engineerID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign engineer")
		}
		return nil
	})
}

func (s *service) BeginInvestigation(ctx context.Context, complaintID uuid.UUID) error {
	if complaintID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		complaint, err := loadComplaint(ctx, repo, complaintID)
		if err != nil {
			return err
		}
		if !complaint.Status.CanTransitionTo(enums.ComplaintStatusUnderInvestigation) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "complaint cannot move to under_investigation").
				WithDetails(map[string]any{"current_status": complaint.Status})
		}
		if err := repo.Update(ctx, complaintID, map[string]any{"status": enums.ComplaintStatusUnderInvestigation}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update status")
		}
		return nil
	})
}

func (s *service) CompleteRepair(ctx context.Context, complaintID uuid.UUID, input CompleteRepairInput) error {
	if complaintID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	repairType, err := enums.ParseRepairType(input.RepairType)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "unknown repair type")
	}
	if repairType == enums.RepairTypeWithSpareParts && len(input.SpareParts) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "repair with spare parts requires at least one part")
	}
	if repairType == enums.RepairTypeWithoutSpareParts && len(input.SpareParts) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "repair without spare parts cannot list parts")
	}
	for _, line := range input.SpareParts {
		if line.SparePartID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "spare part id required")
		}
		if line.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "spare part quantity cannot be negative")
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		complaint, err := loadComplaint(ctx, repo, complaintID)
		if err != nil {
			return err
		}
		if !complaint.Status.CanTransitionTo(enums.ComplaintStatusClosed) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "complaint cannot be closed").
				WithDetails(map[string]any{"current_status": complaint.Status})
		}

		consumptions := make([]models.SparePartConsumption, 0, len(input.SpareParts))
		for _, line := range input.SpareParts {
			qty := line.Quantity
			if qty == 0 {
				qty = DefaultUnitsPerLine
			}
			if err := s.stock.Decrement(ctx, tx, line.SparePartID, qty); err != nil {
				return err
			}
			consumptions = append(consumptions, models.SparePartConsumption{
				ComplaintID:  complaint.ID,
				SparePartID:  line.SparePartID,
				QuantityUsed: qty,
			})
		}
		if err := repo.CreateConsumptions(ctx, consumptions); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record consumptions")
		}

		updates := map[string]any{
			"status":       enums.ComplaintStatusClosed,
			"repair_type":  repairType,
			"repair_notes": input.Notes,
		}
		if err := repo.Update(ctx, complaintID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close complaint")
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, complaintID uuid.UUID) error {
	if complaintID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DeleteConsumptionsByComplaint(ctx, complaintID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete consumptions")
		}
		rows, err := repo.Delete(ctx, complaintID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete complaint")
		}
		if rows == 0 {
			return pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil
	})
}

func loadComplaint(ctx context.Context, repo Repository, id uuid.UUID) (*models.Complaint, error) {
	complaint, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load complaint")
	}
	return complaint, nil
}

func toDetail(complaint *models.Complaint, parts []ConsumptionSummary) *ComplaintDetail {
	detail := &ComplaintDetail{
		ID:          complaint.ID,
		Status:      complaint.Status,
		Kind:        complaint.Kind,
		Description: complaint.Description,
		RepairType:  complaint.RepairType,
		RepairNotes: complaint.RepairNotes,
		EngineerID:  complaint.EngineerID,
		Parts:       parts,
		CreatedAt:   complaint.CreatedAt,
		UpdatedAt:   complaint.UpdatedAt,
	}
	if complaint.Customer != nil {
		detail.Customer = CustomerInput{
			Name:   complaint.Customer.Name,
			Branch: complaint.Customer.Branch,
			Phone:  complaint.Customer.Phone,
		}
	}
	if complaint.Product != nil {
		detail.Product = ProductInput{
			Brand:  complaint.Product.Brand,
			Type:   complaint.Product.Type,
			Model:  complaint.Product.Model,
			Serial: complaint.Product.Serial,
		}
	}
	return detail
}
