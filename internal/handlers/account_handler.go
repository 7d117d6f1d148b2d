package handler

import (
	"net/http"
	"time"

	"ledger-reconciliation-backend/internal/cache"
	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"
	"ledger-reconciliation-backend/internal/services/ledger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	accounts repository.AccountStore
	accessor *ledger.Accessor
	cache    *cache.Store
}

func NewAccountHandler(accounts repository.AccountStore, accessor *ledger.Accessor, c *cache.Store) *AccountHandler {
	return &AccountHandler{accounts: accounts, accessor: accessor, cache: c}
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var payload struct {
		Name           string          `json:"name" binding:"required"`
		OpeningBalance decimal.Decimal `json:"opening_balance"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	account := &models.Account{
		ID:             uuid.New(),
		Name:           payload.Name,
		OpeningBalance: payload.OpeningBalance,
		CreatedAt:      time.Now(),
	}
	if err := h.accounts.Create(account); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account created", "account": account})
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accounts.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetBalance serves the derived balance from the cache when present;
// every mutation under ledger/<account> invalidates it.
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account ID"})
		return
	}

	key := cache.Key("ledger", id.String(), "balance")
	if v, ok := h.cache.Get(key); ok {
		c.JSON(http.StatusOK, gin.H{"account_id": id, "balance": v, "cached": true})
		return
	}

	balance, err := h.accessor.ComputeBalance(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.cache.Put(key, balance)
	c.JSON(http.StatusOK, gin.H{"account_id": id, "balance": balance, "cached": false})
}
