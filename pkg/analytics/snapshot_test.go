package analytics

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros_backend/pkg/models"
)

func snapshotDataset() *models.Dataset {
	return &models.Dataset{
		Clients: []models.Client{
			{ClientID: ip(1), LegalName: "Acme Ltd", IsActive: true, SubscriptionID: ip(10)},
		},
		Restaurants: []models.Restaurant{
			{ID: ip(1), Name: "The Crown", CountryID: 1, ClientID: ip(1)},
			{ID: ip(2), Name: "Spice Route", CountryID: 2, ClientID: ip(1)},
		},
		Users: []models.User{
			{UserID: ip(1), ClientID: ip(1), RestaurantID: ip(1)},
		},
		Subscriptions: []models.Subscription{
			{SubscriptionID: 10, Name: "Basic", Cost: dec("99.99"), NoOfUsers: 4},
		},
		Orders: []models.Order{
			{OrderID: ip(1), RestaurantID: ip(1), OrderDate: day("2024-01-01"), OrderType: "Dine-in", OrderTotal: dec("50")},
			{OrderID: ip(2), RestaurantID: ip(2), OrderDate: day("2024-01-01"), OrderType: "Home Delivery", OrderTotal: dec("80")},
			{OrderID: ip(3), RestaurantID: ip(1), OrderDate: day("2024-01-02"), OrderTotal: dec("20")},
		},
		Sales: []models.SaleDay{
			{RestaurantID: ip(1), Date: day("2024-01-01"), FoodPayment: dec("30"), DrinksPayment: dec("20")},
			{RestaurantID: ip(2), Date: day("2024-01-01"), FoodPayment: dec("80")},
			{RestaurantID: ip(1), Date: day("2024-01-02"), OtherPayment: dec("20")},
		},
		Expenses: []models.ExpenseDay{
			{RestaurantID: ip(1), Date: day("2024-01-01"), Amount: dec("15.50"), Bills: dec("15.50")},
		},
		Cashups: []models.CashupRecord{
			{RestaurantID: ip(1), Date: day("2024-01-01"), IsMatch: true, BankingID: ip(100)},
			{RestaurantID: ip(2), Date: day("2024-01-01"), IsMatch: false},
		},
		Banking: []models.Banking{
			{BankingID: ip(100), EODAmount: dec("50"), BankingTotal: dec("49")},
		},
	}
}

func TestAssembleSnapshot(t *testing.T) {
	m, err := Analyze(snapshotDataset(), Options{})
	require.NoError(t, err)

	snap := Assemble(m)

	_, err = time.Parse(time.RFC3339, snap.LastUpdated)
	assert.NoError(t, err, "last_updated must be RFC3339")

	assert.True(t, snap.SummaryMetrics.TotalRevenue.Equal(dec("150")))
	assert.True(t, snap.SummaryMetrics.NetProfit.Equal(dec("134.50")))
	assert.Equal(t, 50.0, snap.SummaryMetrics.ReconciliationRate)
	assert.Equal(t, 3, snap.SummaryMetrics.TotalOrders)
	assert.Equal(t, 2, snap.OperationalMetrics.TotalRestaurants)
	assert.Equal(t, 1, snap.OperationalMetrics.UKRestaurants)
	assert.Equal(t, 1, snap.OperationalMetrics.IndiaRestaurants)
	assert.True(t, snap.FinancialBreakdown.BankingVariance.Equal(dec("1")))
	assert.Len(t, snap.PerRestaurantDaily, 3)
	assert.Len(t, snap.RestaurantsSummary, 2)
	assert.Len(t, snap.ReconciliationDaily, 2)
}

// The summary section must be re-derivable from the daily section: summing
// per_restaurant_daily after a JSON round trip reproduces restaurants_summary.
func TestSnapshotDailyRoundTrip(t *testing.T) {
	m, err := Analyze(snapshotDataset(), Options{})
	require.NoError(t, err)
	snap := Assemble(m)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	var decoded Snapshot
	require.NoError(t, json.Unmarshal(data, &decoded))

	type totals struct {
		orders   int
		revenue  decimal.Decimal
		expenses decimal.Decimal
	}
	sums := make(map[int]*totals)
	for _, f := range decoded.PerRestaurantDaily {
		s, ok := sums[f.RestaurantID]
		if !ok {
			s = &totals{}
			sums[f.RestaurantID] = s
		}
		s.orders += f.Orders
		s.revenue = s.revenue.Add(f.Revenue)
		s.expenses = s.expenses.Add(f.Expenses)
	}

	require.Len(t, decoded.RestaurantsSummary, 2)
	for _, summary := range decoded.RestaurantsSummary {
		s, ok := sums[summary.RestaurantID]
		require.True(t, ok, "summary for restaurant %d has no daily rows", summary.RestaurantID)
		assert.Equal(t, s.orders, summary.TotalOrders)
		assert.True(t, summary.TotalRevenue.Equal(s.revenue),
			"restaurant %d: summary revenue %s != daily sum %s", summary.RestaurantID, summary.TotalRevenue, s.revenue)
		assert.True(t, summary.TotalExpenses.Equal(s.expenses))
	}
}

func TestSnapshotMoneySerializesAsNumbers(t *testing.T) {
	m, err := Analyze(snapshotDataset(), Options{})
	require.NoError(t, err)

	data, err := json.Marshal(Assemble(m))
	require.NoError(t, err)

	assert.Contains(t, string(data), `"total_revenue":150`)
	assert.NotContains(t, string(data), `"total_revenue":"`)
}

func TestSnapshotEmptyDatasetKeepsListSections(t *testing.T) {
	m, err := Analyze(&models.Dataset{}, Options{})
	require.NoError(t, err)

	data, err := json.Marshal(Assemble(m))
	require.NoError(t, err)
	body := string(data)

	for _, section := range []string{
		"restaurant_performance",
		"subscription_utilization",
		"per_restaurant_daily",
		"restaurants_summary",
		"clients_list",
		"restaurants_list",
		"reconciliation_daily",
		"users_list",
		"client_subscription_utilization",
	} {
		assert.Contains(t, body, `"`+section+`":[]`, "section %s must serialize as []", section)
	}
	assert.False(t, strings.Contains(body, "null"), "no section may serialize as null")
}

func TestSnapshotCarriesDataQuality(t *testing.T) {
	ds := snapshotDataset()
	ds.Quality = models.DataQuality{DroppedOrderRows: 2, UnknownCountryRestaurants: 1}

	m, err := Analyze(ds, Options{})
	require.NoError(t, err)
	snap := Assemble(m)

	assert.Equal(t, 2, snap.DataQuality.DroppedOrderRows)
	assert.Equal(t, 1, snap.DataQuality.UnknownCountryRestaurants)
}
