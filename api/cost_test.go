package api

import (
	"fmt"
	"net/http"
	"testing"

	"vereinskasse/models"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCostRouter(t *testing.T, member models.Member, ledger *service.CostLedger) *gin.Engine {
	t.Helper()
	h := NewCostHandler(ledger, testCatalog())
	r := gin.New()
	r.GET("/categories", h.GetCategories)
	authorized := r.Group("", setMemberMiddleware(member))
	authorized.GET("/costs", h.List)
	authorized.POST("/costs", h.Create)
	authorized.DELETE("/costs/:id", h.Delete)
	return r
}

func TestCostHandler_CreateAndList(t *testing.T) {
	setupJWT(t)
	db := setupTestDB(t)
	anna := createMember(t, db, "Anna", "anna@example.com")
	r := newCostRouter(t, anna, service.NewCostLedger(db, testCatalog()))

	// 固定价格类别忽略提交的金额
	w := doJSON(t, r, "POST", "/costs", `{"date":"2024-01-08","category":"alcoholic","amount":"99"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var cost models.Cost
	resp := decode(t, w, &cost)
	assert.Equal(t, "Cost added successfully!", resp.Message)
	assert.InDelta(t, 2.5, cost.Amount, 0.001)

	w = doJSON(t, r, "POST", "/costs", `{"date":"2024-01-10","category":"Other","amount":"4.5","description":"Chips"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "GET", "/costs", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list CostListResponse
	decode(t, w, &list)
	require.Len(t, list.Costs, 2)
	assert.Equal(t, "2024-01-10", list.Costs[0].Date)
	assert.Equal(t, 2, list.Summary.CountCosts)
	assert.InDelta(t, 7.0, list.Summary.TotalSpent, 0.001)
	assert.InDelta(t, 3.5, list.Summary.AverageCost, 0.001)
}

func TestCostHandler_Create_Validation(t *testing.T) {
	setupJWT(t)
	db := setupTestDB(t)
	anna := createMember(t, db, "Anna", "anna@example.com")
	r := newCostRouter(t, anna, service.NewCostLedger(db, testCatalog()))

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{"missing date", `{"category":"Other","amount":"1"}`, service.ErrDateCategoryRequired.Error()},
		{"missing category", `{"date":"2024-01-10","amount":"1"}`, service.ErrDateCategoryRequired.Error()},
		{"negative amount", `{"date":"2024-01-10","category":"Other","amount":"-1"}`, service.ErrInvalidAmount.Error()},
		{"empty amount", `{"date":"2024-01-10","category":"Other"}`, service.ErrInvalidAmount.Error()},
		{"unknown category", `{"date":"2024-01-10","category":"Beer","amount":"1"}`, service.ErrInvalidCategory.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, "POST", "/costs", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.message, decode(t, w, nil).Message)
		})
	}

	var n int64
	require.NoError(t, db.Model(&models.Cost{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCostHandler_Delete(t *testing.T) {
	setupJWT(t)
	db := setupTestDB(t)
	anna := createMember(t, db, "Anna", "anna@example.com")
	ben := createMember(t, db, "Ben", "ben@example.com")
	ledger := service.NewCostLedger(db, testCatalog())

	bensCost, err := ledger.AddCost(service.Identity{MemberID: ben.ID, Name: ben.Name},
		service.CostInput{Date: "2024-01-10", Category: "non-alcoholic"})
	require.NoError(t, err)
	annasCost, err := ledger.AddCost(service.Identity{MemberID: anna.ID, Name: anna.Name},
		service.CostInput{Date: "2024-01-10", Category: "non-alcoholic"})
	require.NoError(t, err)

	r := newCostRouter(t, anna, ledger)

	// 别人的记录不会被删除
	w := doJSON(t, r, "DELETE", fmt.Sprintf("/costs/%d", bensCost.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var n int64
	require.NoError(t, db.Model(&models.Cost{}).Where("id = ?", bensCost.ID).Count(&n).Error)
	assert.Equal(t, int64(1), n)

	w = doJSON(t, r, "DELETE", fmt.Sprintf("/costs/%d", annasCost.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, db.Model(&models.Cost{}).Where("id = ?", annasCost.ID).Count(&n).Error)
	assert.Zero(t, n)

	// 已删除的记录再次删除仍返回成功
	w = doJSON(t, r, "DELETE", fmt.Sprintf("/costs/%d", annasCost.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, "DELETE", "/costs/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCostHandler_GetCategories(t *testing.T) {
	db := setupTestDB(t)
	r := newCostRouter(t, models.Member{}, service.NewCostLedger(db, testCatalog()))

	w := doJSON(t, r, "GET", "/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cats []models.Category
	decode(t, w, &cats)
	require.Len(t, cats, 3)
	assert.Equal(t, models.CategoryNonAlcoholic, cats[0].Key)
	assert.InDelta(t, 1.5, cats[0].Price, 0.001)
	assert.False(t, cats[2].Fixed)
}
