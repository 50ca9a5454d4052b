package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/starlink-tech/srm-app/models"
	"github.com/starlink-tech/srm-app/services"
	"github.com/starlink-tech/srm-app/utils"
)

type ReconciliationController struct {
	Reconciliations *services.ReconciliationService
}

func NewReconciliationController(recs *services.ReconciliationService) *ReconciliationController {
	return &ReconciliationController{Reconciliations: recs}
}

// GetAllReconciliations -> paginated list; suppliers see only their own.
func (rc *ReconciliationController) GetAllReconciliations(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	recs, err := rc.Reconciliations.List(currentActor(c),
		models.ReconciliationStatus(c.Query("status")),
		uint(queryInt(c, "supplier_id", 0)), page, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reconciliations", recs)
}

// GetReconciliationByID -> detail plus the period's orders and invoices.
func (rc *ReconciliationController) GetReconciliationByID(c *gin.Context) {
	id, ok := paramUint(c, "reconciliation_id")
	if !ok {
		return
	}

	rec, orders, invoices, err := rc.Reconciliations.Get(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reconciliation detail", gin.H{
		"reconciliation": rec,
		"orders":         orders,
		"invoices":       invoices,
	})
}

// CreateReconciliation -> draft statement for a supplier and period; the
// total is computed from delivered orders inside the period.
func (rc *ReconciliationController) CreateReconciliation(c *gin.Context) {
	var input struct {
		SupplierID  uint   `json:"supplier_id" binding:"required"`
		PeriodStart string `json:"period_start" binding:"required"`
		PeriodEnd   string `json:"period_end" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	start := parseDate(input.PeriodStart)
	end := parseDate(input.PeriodEnd)
	if start == nil || end == nil || end.Before(*start) {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid period"))
		return
	}

	rec, err := rc.Reconciliations.Create(currentActor(c), services.CreateReconciliationInput{
		SupplierID:  input.SupplierID,
		PeriodStart: *start,
		PeriodEnd:   *end,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reconciliation created", rec)
}

// SendReconciliation -> draft -> sent.
func (rc *ReconciliationController) SendReconciliation(c *gin.Context) {
	rc.transition(c, "Reconciliation sent", rc.Reconciliations.Send)
}

// ConfirmReconciliation -> sent -> confirmed, by the owning supplier.
func (rc *ReconciliationController) ConfirmReconciliation(c *gin.Context) {
	rc.transition(c, "Reconciliation confirmed", rc.Reconciliations.Confirm)
}

// MarkReconciliationPaid -> confirmed -> paid.
func (rc *ReconciliationController) MarkReconciliationPaid(c *gin.Context) {
	rc.transition(c, "Reconciliation marked paid", rc.Reconciliations.MarkPaid)
}

func (rc *ReconciliationController) transition(c *gin.Context, message string,
	op func(uint, services.Actor) (*models.Reconciliation, error)) {

	id, ok := paramUint(c, "reconciliation_id")
	if !ok {
		return
	}

	rec, err := op(id, currentActor(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, message, rec)
}
