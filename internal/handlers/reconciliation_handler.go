package handler

import (
	"errors"
	"net/http"
	"time"

	"ledger-reconciliation-backend/internal/apperr"
	"ledger-reconciliation-backend/internal/models"
	service "ledger-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReconciliationHandler struct {
	service *service.Service
}

func NewReconciliationHandler(s *service.Service) *ReconciliationHandler {
	return &ReconciliationHandler{service: s}
}

// respondError maps engine error kinds onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (h *ReconciliationHandler) CreateSession(c *gin.Context) {
	var payload struct {
		AccountID   string          `json:"account_id" binding:"required"`
		StartDate   string          `json:"start_date" binding:"required"`
		EndDate     string          `json:"end_date" binding:"required"`
		BankBalance decimal.Decimal `json:"bank_balance"`
		Notes       string          `json:"notes"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	accountID, err := uuid.Parse(payload.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}
	start, err := time.Parse("2006-01-02", payload.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected yyyy-mm-dd"})
		return
	}
	end, err := time.Parse("2006-01-02", payload.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected yyyy-mm-dd"})
		return
	}

	sess, err := h.service.CreateSession(accountID, start, end, payload.BankBalance, payload.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session created", "session": sess})
}

func (h *ReconciliationHandler) GetSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	sess, err := h.service.GetSession(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": sess})
}

func (h *ReconciliationHandler) ListSessions(c *gin.Context) {
	accountID, err := uuid.Parse(c.Query("account_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}
	sessions, err := h.service.ListSessions(accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

func (h *ReconciliationHandler) UpdateSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	var payload struct {
		StartDate   *string          `json:"start_date"`
		EndDate     *string          `json:"end_date"`
		BankBalance *decimal.Decimal `json:"bank_balance"`
		Notes       *string          `json:"notes"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	edit := service.SessionEdit{BankBalance: payload.BankBalance, Notes: payload.Notes}
	if payload.StartDate != nil {
		start, err := time.Parse("2006-01-02", *payload.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date, expected yyyy-mm-dd"})
			return
		}
		edit.StartDate = &start
	}
	if payload.EndDate != nil {
		end, err := time.Parse("2006-01-02", *payload.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date, expected yyyy-mm-dd"})
			return
		}
		edit.EndDate = &end
	}

	sess, err := h.service.UpdateSession(id, edit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session updated", "session": sess})
}

func (h *ReconciliationHandler) GetSummary(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	summary, err := h.service.Summarize(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}

func (h *ReconciliationHandler) SetReconciled(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	txID, err := uuid.Parse(c.Param("txId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}
	var payload struct {
		Reconciled bool `json:"reconciled"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	tx, err := h.service.SetReconciled(txID, payload.Reconciled, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction updated", "transaction": tx})
}

func (h *ReconciliationHandler) BatchSetReconciled(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	var payload struct {
		TransactionIDs []string `json:"transaction_ids" binding:"required"`
		Reconciled     bool     `json:"reconciled"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	ids := make([]uuid.UUID, 0, len(payload.TransactionIDs))
	for _, raw := range payload.TransactionIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID: " + raw})
			return
		}
		ids = append(ids, id)
	}

	if err := h.service.BatchSetReconciled(ids, payload.Reconciled, sessionID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "batch applied", "count": len(ids)})
}

func (h *ReconciliationHandler) PostAdjustment(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	var payload struct {
		Kind        models.TransactionKind `json:"kind" binding:"required"`
		Amount      decimal.Decimal        `json:"amount" binding:"required"`
		CategoryID  *uuid.UUID             `json:"category_id"`
		Description string                 `json:"description"`
		Date        string                 `json:"date" binding:"required"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, expected yyyy-mm-dd"})
		return
	}

	entry, err := h.service.PostAdjustment(sessionID, payload.Kind, payload.Amount, payload.CategoryID, payload.Description, date)
	if errors.Is(err, apperr.ErrInconsistentBalance) {
		// Soft failure: the entry exists, only the balance update lagged.
		c.JSON(http.StatusOK, gin.H{
			"message":    "adjustment created",
			"warning":    err.Error(),
			"adjustment": entry,
		})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "adjustment created", "adjustment": entry})
}

func (h *ReconciliationHandler) CompleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	sess, err := h.service.CompleteSession(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session completed", "session": sess})
}

func (h *ReconciliationHandler) DeleteSession(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}
	report, err := h.service.DeleteSession(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted", "report": report})
}
