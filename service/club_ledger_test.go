package service

import (
	"testing"

	"vereinskasse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	tests := map[string]string{
		"2024-01-08": "2024-01-08", // 周一
		"2024-01-14": "2024-01-08", // 周日
		"2024-01-15": "2024-01-15",
		"2024-01-10": "2024-01-08",
		"2024-03-03": "2024-02-26", // 跨月
		"2025-01-01": "2024-12-30", // 跨年
	}
	for date, want := range tests {
		got, err := WeekStart(date)
		require.NoError(t, err, date)
		assert.Equal(t, want, got, date)
	}

	_, err := WeekStart("10.01.2024")
	assert.Error(t, err)
}

func clubCost(id uint, memberID uint, name, date string, amount float64) models.CostWithMember {
	return models.CostWithMember{
		ID:         id,
		MemberID:   memberID,
		MemberName: name,
		Date:       date,
		Amount:     amount,
		Category:   models.CategoryOther,
	}
}

func TestGroupByWeekAndMember(t *testing.T) {
	costs := []models.CostWithMember{
		clubCost(1, 2, "Berta", "2024-01-08", 1.5),
		clubCost(2, 1, "Anna", "2024-01-14", 2.5),
		clubCost(3, 1, "Anna", "2024-01-09", 4),
		clubCost(4, 2, "Berta", "2024-01-15", 1.5),
		clubCost(5, 3, "Carl", "not-a-date", 100),
	}

	weeks := GroupByWeekAndMember(costs)
	require.Len(t, weeks, 2)

	// 最近一周在前
	assert.Equal(t, "2024-01-15", weeks[0].WeekStart)
	assert.Equal(t, "2024-01-08", weeks[1].WeekStart)

	first := weeks[0]
	require.Len(t, first.Members, 1)
	assert.Equal(t, "Berta", first.Members[0].MemberName)
	assert.InDelta(t, 1.5, first.Total, 1e-9)

	second := weeks[1]
	require.Len(t, second.Members, 2)
	assert.Equal(t, "Anna", second.Members[0].MemberName)
	assert.Equal(t, "Berta", second.Members[1].MemberName)

	anna := second.Members[0]
	require.Len(t, anna.Costs, 2)
	assert.Equal(t, "2024-01-14", anna.Costs[0].Date)
	assert.Equal(t, "2024-01-09", anna.Costs[1].Date)
	assert.InDelta(t, 6.5, anna.Subtotal, 1e-9)
	assert.InDelta(t, 8.0, second.Total, 1e-9)
}

func TestGroupByWeekAndMember_TotalsAddUp(t *testing.T) {
	costs := []models.CostWithMember{
		clubCost(1, 1, "Anna", "2024-02-05", 1.5),
		clubCost(2, 2, "Berta", "2024-02-06", 2.5),
		clubCost(3, 3, "Carl", "2024-02-12", 7.25),
		clubCost(4, 1, "Anna", "2024-02-18", 3),
		clubCost(5, 2, "Berta", "2024-01-31", 0.5),
		clubCost(6, 3, "Carl", "2024-01-29", 10),
	}

	weeks := GroupByWeekAndMember(costs)
	var grand float64
	for i, w := range weeks {
		var sum float64
		for j, m := range w.Members {
			sum += m.Subtotal
			if j > 0 {
				assert.Less(t, w.Members[j-1].MemberName, m.MemberName)
			}
		}
		assert.InDelta(t, w.Total, sum, 1e-9)
		if i > 0 {
			assert.Greater(t, weeks[i-1].WeekStart, w.WeekStart)
		}
		grand += w.Total
	}
	assert.InDelta(t, SummarizeClub(costs).TotalSpent, grand, 1e-9)
}

func TestGroupByWeekAndMember_Empty(t *testing.T) {
	weeks := GroupByWeekAndMember(nil)
	assert.NotNil(t, weeks)
	assert.Empty(t, weeks)
}

func TestSummarizeClub(t *testing.T) {
	empty := SummarizeClub(nil)
	assert.Equal(t, ClubSummary{}, empty)

	s := SummarizeClub([]models.CostWithMember{
		clubCost(1, 1, "Anna", "2024-01-08", 1.5),
		clubCost(2, 1, "Anna", "2024-01-09", 2.5),
		clubCost(3, 2, "Berta", "2024-01-10", 5),
	})
	assert.InDelta(t, 9.0, s.TotalSpent, 1e-9)
	assert.Equal(t, 3, s.CountCosts)
	assert.InDelta(t, 3.0, s.AverageCost, 1e-9)
	assert.Equal(t, 2, s.TotalMembers)
}

func TestClubLedger_View(t *testing.T) {
	db := newTestDB(t)
	anna := createMember(t, db, "Anna", "anna@example.com")
	berta := createMember(t, db, "Berta", "berta@example.com")
	ledger := NewCostLedger(db, testCatalog())

	_, err := ledger.AddCost(identityOf(anna), CostInput{Date: "2024-01-08", Category: models.CategoryNonAlcoholic})
	require.NoError(t, err)
	_, err = ledger.AddCost(identityOf(berta), CostInput{Date: "2024-01-14", Category: models.CategoryAlcoholic})
	require.NoError(t, err)
	_, err = ledger.AddCost(identityOf(anna), CostInput{Date: "2024-01-15", Category: models.CategoryOther, Amount: "3", Description: "Kuchen"})
	require.NoError(t, err)

	club := NewClubLedger(db)

	_, err = club.View(Identity{})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	view, err := club.View(identityOf(berta))
	require.NoError(t, err)
	require.Len(t, view.Weeks, 2)
	assert.Equal(t, "2024-01-15", view.Weeks[0].WeekStart)
	assert.Equal(t, "Anna", view.Weeks[0].Members[0].MemberName)
	assert.Equal(t, "Kuchen", view.Weeks[0].Members[0].Costs[0].Description)

	assert.Equal(t, "2024-01-08", view.Weeks[1].WeekStart)
	assert.InDelta(t, 4.0, view.Weeks[1].Total, 1e-9)

	assert.InDelta(t, 7.0, view.Summary.TotalSpent, 1e-9)
	assert.Equal(t, 3, view.Summary.CountCosts)
	assert.Equal(t, 2, view.Summary.TotalMembers)
}
