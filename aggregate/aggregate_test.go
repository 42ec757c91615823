package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"medcompare/aggregate"
	"medcompare/models"
)

func intp(v int) *int { return &v }

func TestResult_FlagsMinimumAndPreservesOrder(t *testing.T) {
	quotes := []models.Quote{
		{Pharmacy: "Apollo", Price: intp(100), Link: "a"},
		{Pharmacy: "PharmEasy", Price: intp(90), Link: "b"},
		{Pharmacy: "NetMeds", Link: "c", Error: models.ErrCodeNavigation},
	}

	res := aggregate.Result("DOLO 650", quotes)

	require.Equal(t, "DOLO 650", res.Medicine)
	require.Len(t, res.Results, 3)
	require.NotNil(t, res.CheapestPrice)
	require.Equal(t, 90, *res.CheapestPrice)

	require.Equal(t, "Apollo", res.Results[0].Pharmacy)
	require.False(t, res.Results[0].IsCheapest)
	require.Equal(t, "PharmEasy", res.Results[1].Pharmacy)
	require.True(t, res.Results[1].IsCheapest)
	require.Equal(t, "NetMeds", res.Results[2].Pharmacy)
	require.False(t, res.Results[2].IsCheapest)
	require.Nil(t, res.Results[2].Price)
}

func TestResult_TiesAllFlagged(t *testing.T) {
	quotes := []models.Quote{
		{Pharmacy: "A", Price: intp(75)},
		{Pharmacy: "B", Price: intp(75)},
		{Pharmacy: "C", Price: intp(120)},
	}

	res := aggregate.Result("X", quotes)

	require.Equal(t, 75, *res.CheapestPrice)
	require.True(t, res.Results[0].IsCheapest)
	require.True(t, res.Results[1].IsCheapest)
	require.False(t, res.Results[2].IsCheapest)
}

func TestResult_AllFailed(t *testing.T) {
	quotes := []models.Quote{
		{Pharmacy: "A", Error: models.ErrCodeRenderTimeout},
		{Pharmacy: "B", Error: models.ErrCodeParse},
	}

	res := aggregate.Result("X", quotes)

	require.Nil(t, res.CheapestPrice)
	require.Len(t, res.Results, 2)
	for _, q := range res.Results {
		require.Nil(t, q.Price)
		require.False(t, q.IsCheapest)
	}
}

func TestResult_ZeroIsAValidMinimum(t *testing.T) {
	quotes := []models.Quote{
		{Pharmacy: "A", Price: intp(0)},
		{Pharmacy: "B", Price: intp(10)},
	}

	res := aggregate.Result("X", quotes)

	require.Equal(t, 0, *res.CheapestPrice)
	require.True(t, res.Results[0].IsCheapest)
	require.False(t, res.Results[1].IsCheapest)
}

func TestResult_EmptyBatch(t *testing.T) {
	res := aggregate.Result("X", nil)

	require.Nil(t, res.CheapestPrice)
	require.Empty(t, res.Results)
}

func TestResult_DoesNotAliasCheapestPrice(t *testing.T) {
	quotes := []models.Quote{{Pharmacy: "A", Price: intp(50)}}

	res := aggregate.Result("X", quotes)

	*res.CheapestPrice = 999
	require.Equal(t, 50, *quotes[0].Price)
}
