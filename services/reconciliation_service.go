package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/starlink-tech/srm-app/models"
)

// ReconciliationService drives the supplier reconciliation workflow
// (draft -> sent -> confirmed -> paid). Structurally the same transition
// table approach as the order lifecycle, without an audit log.
type ReconciliationService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReconciliationService(db *gorm.DB) *ReconciliationService {
	return &ReconciliationService{db: db, now: time.Now}
}

type CreateReconciliationInput struct {
	SupplierID  uint
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// Create builds a draft reconciliation whose total is the decimal sum of
// received and completed orders delivered inside the period.
func (s *ReconciliationService) Create(actor Actor, in CreateReconciliationInput) (*models.Reconciliation, error) {
	if !actor.Role.CanManageFinance() {
		return nil, errForbidden()
	}
	if in.SupplierID == 0 || in.PeriodStart.IsZero() || in.PeriodEnd.IsZero() {
		return nil, newError(KindValidation, "supplier and period are required")
	}

	var orders []models.Order
	err := s.db.
		Where("supplier_id = ?", in.SupplierID).
		Where("status IN ?", []models.OrderStatus{models.OrderReceived, models.OrderCompleted}).
		Where("delivery_date BETWEEN ? AND ?", in.PeriodStart, in.PeriodEnd).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(o.TotalAmount)
	}

	rec := models.Reconciliation{
		ReconciliationNo: NewDocumentNo("RC", s.now()),
		SupplierID:       in.SupplierID,
		PeriodStart:      in.PeriodStart,
		PeriodEnd:        in.PeriodEnd,
		TotalAmount:      total,
		Status:           models.ReconciliationDraft,
	}
	if err := s.db.Create(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Send moves a draft reconciliation to sent.
func (s *ReconciliationService) Send(id uint, actor Actor) (*models.Reconciliation, error) {
	if !actor.Role.CanManageFinance() {
		return nil, errForbidden()
	}
	return s.advance(id, models.ReconciliationDraft, models.ReconciliationSent, "send")
}

// Confirm moves a sent reconciliation to confirmed. Only the supplier the
// document belongs to may confirm it; ownership is checked here, not only at
// the HTTP boundary.
func (s *ReconciliationService) Confirm(id uint, actor Actor) (*models.Reconciliation, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleSupplier || !actor.ownsSupplier(rec.SupplierID) {
		return nil, errForbidden()
	}
	return s.advance(id, models.ReconciliationSent, models.ReconciliationConfirmed, "confirm")
}

// MarkPaid moves a confirmed reconciliation to paid.
func (s *ReconciliationService) MarkPaid(id uint, actor Actor) (*models.Reconciliation, error) {
	if !actor.Role.CanManageFinance() {
		return nil, errForbidden()
	}
	return s.advance(id, models.ReconciliationConfirmed, models.ReconciliationPaid, "mark paid")
}

// Get returns one reconciliation plus the period's orders and invoices.
// Suppliers may only read their own documents.
func (s *ReconciliationService) Get(id uint, actor Actor) (*models.Reconciliation, []models.Order, []models.Invoice, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, nil, nil, err
	}
	if actor.Role == models.RoleSupplier && !actor.ownsSupplier(rec.SupplierID) {
		return nil, nil, nil, errForbidden()
	}

	var orders []models.Order
	if err := s.db.
		Where("supplier_id = ?", rec.SupplierID).
		Where("status IN ?", []models.OrderStatus{models.OrderReceived, models.OrderCompleted}).
		Where("created_at BETWEEN ? AND ?", rec.PeriodStart, rec.PeriodEnd).
		Find(&orders).Error; err != nil {
		return nil, nil, nil, err
	}

	var invoices []models.Invoice
	if err := s.db.
		Where("supplier_id = ?", rec.SupplierID).
		Where("created_at BETWEEN ? AND ?", rec.PeriodStart, rec.PeriodEnd).
		Find(&invoices).Error; err != nil {
		return nil, nil, nil, err
	}

	return rec, orders, invoices, nil
}

// List returns a page of reconciliations; supplier actors see only their own.
func (s *ReconciliationService) List(actor Actor, status models.ReconciliationStatus, supplierID uint, page, limit int) ([]models.Reconciliation, error) {
	q := s.db.Model(&models.Reconciliation{})
	if actor.Role == models.RoleSupplier {
		sid := uint(0)
		if actor.SupplierID != nil {
			sid = *actor.SupplierID
		}
		q = q.Where("supplier_id = ?", sid)
	} else if supplierID != 0 {
		q = q.Where("supplier_id = ?", supplierID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var recs []models.Reconciliation
	err := q.Preload("Supplier").
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&recs).Error
	return recs, err
}

// advance performs a guarded linear transition. Zero rows affected means the
// document is not in the expected source state.
func (s *ReconciliationService) advance(id uint, from, to models.ReconciliationStatus, op string) (*models.Reconciliation, error) {
	rec, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if rec.Status != from {
		return nil, newError(KindInvalidTransition, "cannot %s a reconciliation in status %q", op, rec.Status)
	}

	res := s.db.Model(&models.Reconciliation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, newError(KindInvalidTransition, "cannot %s a reconciliation in status %q", op, rec.Status)
	}
	return s.load(id)
}

func (s *ReconciliationService) load(id uint) (*models.Reconciliation, error) {
	var rec models.Reconciliation
	if err := s.db.Preload("Supplier").First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errNotFound("reconciliation")
		}
		return nil, err
	}
	return &rec, nil
}
