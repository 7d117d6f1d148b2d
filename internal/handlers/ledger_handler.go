package handler

import (
	"net/http"
	"time"

	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/services/ledger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LedgerHandler struct {
	accessor *ledger.Accessor
}

func NewLedgerHandler(accessor *ledger.Accessor) *LedgerHandler {
	return &LedgerHandler{accessor: accessor}
}

func (h *LedgerHandler) CreateTransaction(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}

	var payload struct {
		Kind          models.TransactionKind `json:"kind" binding:"required"`
		Amount        decimal.Decimal        `json:"amount" binding:"required"`
		Date          string                 `json:"date" binding:"required"` // "2006-01-02"
		Description   string                 `json:"description"`
		CategoryID    *uuid.UUID             `json:"category_id"`
		PaymentMethod string                 `json:"payment_method"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	date, err := time.Parse("2006-01-02", payload.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date format, expected yyyy-mm-dd"})
		return
	}
	if !payload.Amount.GreaterThan(decimal.Zero) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	tx, err := h.accessor.CreateTransaction(accountID, payload.Kind, payload.Amount, date, payload.Description, payload.CategoryID, payload.PaymentMethod)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction created", "transaction": tx})
}

func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}
	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", "0001-01-01"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from date"})
		return
	}
	to, err := time.Parse("2006-01-02", c.DefaultQuery("to", "9999-12-31"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to date"})
		return
	}

	txs, err := h.accessor.ListTransactions(accountID, from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
