package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros_backend/pkg/models"
)

func TestCountGlobals(t *testing.T) {
	ds := &models.Dataset{
		Clients: []models.Client{
			{ClientID: ip(1), IsActive: true},
			{ClientID: ip(2), IsActive: false},
			{ClientID: ip(3), IsActive: true},
		},
		Restaurants: []models.Restaurant{
			{ID: ip(1), CountryID: 1},
			{ID: ip(2), CountryID: 2},
			{ID: ip(3), CountryID: 2},
			{ID: ip(4), CountryID: 7}, // out-of-domain id joins neither split
		},
		Users:  []models.User{{UserID: ip(1)}, {UserID: ip(2)}},
		Orders: []models.Order{{OrderID: ip(1)}},
	}

	c := CountGlobals(ds)
	assert.Equal(t, 3, c.TotalClients)
	assert.Equal(t, 4, c.TotalRestaurants)
	assert.Equal(t, 2, c.TotalUsers)
	assert.Equal(t, 1, c.TotalOrders)
	assert.Equal(t, 1, c.UKRestaurants)
	assert.Equal(t, 2, c.IndiaRestaurants)
	assert.Equal(t, 2, c.ActiveClients)
	assert.Equal(t, 1, c.InactiveClients)
}

func TestUtilizationPct(t *testing.T) {
	assert.Equal(t, 50.0, utilizationPct(5, 10))
	assert.Equal(t, 33.3, utilizationPct(1, 3))
	assert.Equal(t, 120.0, utilizationPct(6, 5)) // over-capacity reported as-is
	assert.Equal(t, 0.0, utilizationPct(3, 0))
	assert.Equal(t, 0.0, utilizationPct(3, -1))
}

func TestAnalyzeSubscriptions(t *testing.T) {
	ds := &models.Dataset{
		Subscriptions: []models.Subscription{
			{SubscriptionID: 10, Name: "Basic", Cost: dec("99.99"), NoOfUsers: 4},
			{SubscriptionID: 11, Name: "Free", Cost: dec("0"), NoOfUsers: 0},
		},
		Clients: []models.Client{
			{ClientID: ip(1), SubscriptionID: ip(10)},
			{ClientID: ip(2), SubscriptionID: ip(11)},
		},
		Users: []models.User{
			{UserID: ip(1), ClientID: ip(1)},
			{UserID: ip(2), ClientID: ip(1)},
			{UserID: ip(3), ClientID: ip(2)},
			{UserID: ip(4), ClientID: nil}, // orphaned user counts nowhere
		},
	}

	subs := AnalyzeSubscriptions(ds)
	require.Len(t, subs, 2)

	assert.Equal(t, "Basic", subs[0].Name)
	assert.Equal(t, 2, subs[0].CurrentUsers)
	assert.Equal(t, 50.0, subs[0].Utilization)

	// zero-capacity tier never divides
	assert.Equal(t, 1, subs[1].CurrentUsers)
	assert.Equal(t, 0.0, subs[1].Utilization)
}

func TestAnalyzeClientUtilizationDanglingSubscription(t *testing.T) {
	ds := &models.Dataset{
		Subscriptions: []models.Subscription{
			{SubscriptionID: 10, Name: "Basic", NoOfUsers: 4},
		},
		Clients: []models.Client{
			{ClientID: ip(1), LegalName: "Acme Ltd", SubscriptionID: ip(10)},
			{ClientID: ip(2), LegalName: "Beta Foods", SubscriptionID: ip(99)}, // dangling ref
			{ClientID: ip(3), LegalName: "Gamma", SubscriptionID: nil},
		},
		Users: []models.User{
			{UserID: ip(1), ClientID: ip(1)},
			{UserID: ip(2), ClientID: ip(2)},
		},
	}

	util := AnalyzeClientUtilization(ds, BuildSubscriptionIndex(ds))
	require.Len(t, util, 3)

	assert.Equal(t, "Basic", util[0].SubscriptionName)
	assert.Equal(t, 25.0, util[0].Utilization)

	assert.Equal(t, "", util[1].SubscriptionName)
	assert.Equal(t, 0, util[1].MaxUsers)
	assert.Equal(t, 0.0, util[1].Utilization)

	assert.Equal(t, 0, util[2].SubscriptionID)
	assert.Equal(t, 0.0, util[2].Utilization)
}

func TestAnalyzeOrders(t *testing.T) {
	ds := &models.Dataset{
		Orders: []models.Order{
			{OrderID: ip(1), OrderType: "Dine-in", OrderTotal: dec("30"), FoodAmount: dec("20"), DrinksAmount: dec("10")},
			{OrderID: ip(2), OrderType: "Home Delivery", OrderTotal: dec("50"), FoodAmount: dec("45"), DrinksAmount: dec("5")},
			{OrderID: ip(3), OrderType: "Dine-in", OrderTotal: dec("10"), FoodAmount: dec("10")},
		},
	}

	stats := AnalyzeOrders(ds)
	assert.True(t, stats.AvgOrderValue.Equal(dec("30")))
	assert.True(t, stats.AvgFoodAmount.Equal(dec("25")))
	assert.True(t, stats.AvgDrinksAmount.Equal(dec("5")))
	assert.Equal(t, map[string]int{"Dine-in": 2, "Home Delivery": 1}, stats.TypeDistribution)
	assert.True(t, stats.AvgDeliveryValue.Equal(dec("50")))
	assert.True(t, stats.AvgDineInValue.Equal(dec("20")))
}

func TestAnalyzeOrdersEmpty(t *testing.T) {
	stats := AnalyzeOrders(&models.Dataset{})
	assert.True(t, stats.AvgOrderValue.IsZero())
	assert.Empty(t, stats.TypeDistribution)
}

func TestComputeFinancials(t *testing.T) {
	ds := &models.Dataset{
		Sales: []models.SaleDay{
			{RestaurantID: ip(1), FoodPayment: dec("60"), DrinksPayment: dec("25"), OtherPayment: dec("5"), ServiceCharges: dec("6"), DeliveryCharges: dec("4")},
			{RestaurantID: ip(1), FoodPayment: dec("40")},
		},
		Expenses: []models.ExpenseDay{
			{RestaurantID: ip(1), Amount: dec("30"), Bills: dec("10"), Repairs: dec("20")},
			{RestaurantID: ip(1), Amount: dec("10"), Bills: dec("10")},
		},
	}

	f := ComputeFinancials(ds)
	assert.True(t, f.TotalRevenue.Equal(dec("140")), "revenue = %s", f.TotalRevenue)
	assert.True(t, f.Revenue.FoodRevenue.Equal(dec("100")))
	assert.True(t, f.AvgDailyRevenue.Equal(dec("70")))
	assert.True(t, f.TotalExpenses.Equal(dec("40")))
	assert.True(t, f.Expenses.Bills.Equal(dec("20")))
	assert.True(t, f.NetProfit.Equal(dec("100")))
	assert.Equal(t, 71.43, f.ProfitMargin)

	// sample std of {20, 0} is sqrt(200) ≈ 14.14; of {10, 10} is 0
	assert.Equal(t, 14.14, f.Volatility.RepairsStd)
	assert.Equal(t, 0.0, f.Volatility.BillsStd)
}

func TestComputeFinancialsZeroRevenueHasZeroMargin(t *testing.T) {
	ds := &models.Dataset{
		Expenses: []models.ExpenseDay{{RestaurantID: ip(1), Amount: dec("50")}},
	}

	f := ComputeFinancials(ds)
	assert.True(t, f.TotalRevenue.IsZero())
	assert.True(t, f.NetProfit.Equal(dec("-50")))
	assert.Equal(t, 0.0, f.ProfitMargin)
}

func TestSampleStd(t *testing.T) {
	assert.Equal(t, 0.0, sampleStd(nil))
	assert.Equal(t, 0.0, sampleStd([]float64{42}))
	assert.InDelta(t, 10.0, sampleStd([]float64{10, 20, 30}), 1e-9)
}

func TestAnalyzeReconciliation(t *testing.T) {
	ds := &models.Dataset{
		Cashups: []models.CashupRecord{
			{RestaurantID: ip(1), Date: day("2024-01-01"), IsMatch: true, BankingID: ip(100)},
			{RestaurantID: ip(1), Date: day("2024-01-02"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-03"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-04"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-05"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-06"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-07"), IsMatch: true},
			{RestaurantID: ip(1), Date: day("2024-01-08"), IsMatch: true, BankingID: ip(101)},
			{RestaurantID: ip(1), Date: day("2024-01-09"), IsMatch: false, BankingID: ip(999)}, // no banking row
			{RestaurantID: nil, Date: nil, IsMatch: false},
		},
		Banking: []models.Banking{
			{BankingID: ip(100), EODAmount: dec("500"), BankingTotal: dec("490")},
			{BankingID: ip(101), EODAmount: dec("200"), BankingTotal: dec("230")},
		},
	}

	rec := AnalyzeReconciliation(ds)
	assert.Equal(t, 80.0, rec.Rate)

	// the row with nil keys stays out of the daily series but counts in the rate
	assert.Len(t, rec.Daily, 9)
	assert.Equal(t, "2024-01-01", rec.Daily[0].Date)

	// variance over the two matched pairs only: |500-490|=10, |200-230|=30
	assert.True(t, rec.AvgBankingVariance.Equal(dec("20")), "avg = %s", rec.AvgBankingVariance)
	assert.True(t, rec.MaxBankingVariance.Equal(dec("30")))
}

func TestAnalyzeReconciliationNoCashups(t *testing.T) {
	rec := AnalyzeReconciliation(&models.Dataset{})
	assert.Equal(t, 0.0, rec.Rate)
	assert.Empty(t, rec.Daily)
	assert.True(t, rec.AvgBankingVariance.IsZero())
}

func TestTopRestaurants(t *testing.T) {
	ds := &models.Dataset{
		Restaurants: []models.Restaurant{
			{ID: ip(1), Name: "The Crown", CountryID: 1},
			{ID: ip(2), Name: "Spice Route", CountryID: 2},
			{ID: ip(3), Name: "Harbour View", CountryID: 1},
		},
		Orders: []models.Order{
			{OrderID: ip(1), RestaurantID: ip(1), OrderTotal: dec("100")},
			{OrderID: ip(2), RestaurantID: ip(2), OrderTotal: dec("300")},
			{OrderID: ip(3), RestaurantID: ip(3), OrderTotal: dec("100")},
			{OrderID: ip(4), RestaurantID: ip(2), OrderTotal: dec("65")},
		},
	}

	top := TopRestaurants(ds, 10)
	require.Len(t, top, 3)
	assert.Equal(t, "Spice Route", top[0].Name)
	assert.Equal(t, "India", top[0].Country)
	assert.True(t, top[0].Revenue.Equal(dec("365")))
	assert.Equal(t, 0.0, top[0].DailyOrders) // 2/365 rounds to 0.0 at one decimal

	// revenue tie between 1 and 3 keeps first-seen order
	assert.Equal(t, "The Crown", top[1].Name)
	assert.Equal(t, "Harbour View", top[2].Name)

	// the cut applies after ranking
	assert.Len(t, TopRestaurants(ds, 2), 2)
	assert.Equal(t, "Spice Route", TopRestaurants(ds, 2)[0].Name)
}

func TestAvgOrdersPerStaff(t *testing.T) {
	ds := &models.Dataset{
		Restaurants: []models.Restaurant{{ID: ip(1)}, {ID: ip(2)}},
		Users:       []models.User{{UserID: ip(1)}, {UserID: ip(2)}, {UserID: ip(3)}, {UserID: ip(4)}},
		Orders:      make([]models.Order, 10),
	}
	// 10 orders over 4 users = 2.5 per staff member, restaurant split cancels
	assert.Equal(t, 2.5, AvgOrdersPerStaff(ds))

	assert.Equal(t, 0.0, AvgOrdersPerStaff(&models.Dataset{}))
}

func TestBuildFilterLists(t *testing.T) {
	ds := &models.Dataset{
		Clients: []models.Client{
			{ClientID: ip(2), LegalName: "Zebra Dining", SubscriptionID: ip(10)},
			{ClientID: ip(1), LegalName: "Acme Ltd", IsActive: true},
			{ClientID: nil, LegalName: "No ID"},
		},
		Restaurants: []models.Restaurant{
			{ID: ip(2), Name: "Spice Route", ClientID: ip(2)},
			{ID: ip(1), Name: "The Crown", ClientID: ip(1)},
		},
		Users: []models.User{
			{UserID: ip(5), ClientID: ip(2)},
			{UserID: ip(3), ClientID: ip(1), RestaurantID: ip(1)},
		},
		Subscriptions: []models.Subscription{
			{SubscriptionID: 10, Name: "Basic"},
		},
	}

	clients, restaurants, users := BuildFilterLists(ds, BuildSubscriptionIndex(ds))

	// clients sorted by name; nil-id row skipped
	require.Len(t, clients, 2)
	assert.Equal(t, "Acme Ltd", clients[0].ClientName)
	assert.Equal(t, "Zebra Dining", clients[1].ClientName)
	assert.Equal(t, "Basic", clients[1].SubscriptionName)
	assert.Nil(t, clients[0].SubscriptionID)

	require.Len(t, restaurants, 2)
	assert.Equal(t, "Spice Route", restaurants[0].Name)
	assert.Equal(t, "The Crown", restaurants[1].Name)

	// users keep input order
	require.Len(t, users, 2)
	assert.Equal(t, 5, users[0].UserID)
	assert.Equal(t, 3, users[1].UserID)
}
