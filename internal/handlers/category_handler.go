package handler

import (
	"net/http"

	"ledger-reconciliation-backend/internal/models"
	"ledger-reconciliation-backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// CategoryHandler serves read-only reference data; the reconciliation
// engine never mutates categories.
type CategoryHandler struct {
	categories repository.CategoryStore
}

func NewCategoryHandler(categories repository.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	kind := models.TransactionKind(c.DefaultQuery("kind", string(models.KindExpenditure)))
	if kind != models.KindIncome && kind != models.KindExpenditure {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be income or expenditure"})
		return
	}
	categories, err := h.categories.ListByKind(kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
