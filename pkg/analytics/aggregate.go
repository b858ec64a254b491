package analytics

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"ros_backend/pkg/models"
)

// countryLabel maps country_id to a display label. Anything that is not UK
// falls through to India, reproducing the dashboard's historical rule for
// out-of-domain ids.
func countryLabel(countryID int) string {
	if countryID == 1 {
		return "UK"
	}
	return "India"
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// utilizationPct is current/max as a percentage rounded to one decimal.
// Zero capacity yields 0 rather than a division error.
func utilizationPct(current, max int) float64 {
	if max <= 0 {
		return 0
	}
	return round1(float64(current) / float64(max) * 100)
}

// meanDecimal divides a total by a row count, rounded to two decimals.
func meanDecimal(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// sampleStd is the sample standard deviation (ddof=1), the variant the
// dashboard has always reported for expense volatility.
func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(values)-1))
}

// GlobalCounts holds the row counts and splits of the reference extracts.
type GlobalCounts struct {
	TotalClients     int
	TotalRestaurants int
	TotalUsers       int
	TotalOrders      int
	UKRestaurants    int
	IndiaRestaurants int
	ActiveClients    int
	InactiveClients  int
}

// CountGlobals computes entity counts, the UK/India split and the
// active/inactive client split.
func CountGlobals(ds *models.Dataset) GlobalCounts {
	c := GlobalCounts{
		TotalClients:     len(ds.Clients),
		TotalRestaurants: len(ds.Restaurants),
		TotalUsers:       len(ds.Users),
		TotalOrders:      len(ds.Orders),
	}
	for _, r := range ds.Restaurants {
		if r.CountryID == 1 {
			c.UKRestaurants++
		} else if r.CountryID == 2 {
			c.IndiaRestaurants++
		}
	}
	for _, cl := range ds.Clients {
		if cl.IsActive {
			c.ActiveClients++
		} else {
			c.InactiveClients++
		}
	}
	return c
}

// SubscriptionIndex is a read-only lookup from subscription id to record,
// passed explicitly into the functions that resolve names and capacities.
type SubscriptionIndex map[int]models.Subscription

// BuildSubscriptionIndex indexes the subscriptions extract by id.
func BuildSubscriptionIndex(ds *models.Dataset) SubscriptionIndex {
	idx := make(SubscriptionIndex, len(ds.Subscriptions))
	for _, s := range ds.Subscriptions {
		idx[s.SubscriptionID] = s
	}
	return idx
}

// SubscriptionUtilization is the global utilization of one subscription tier.
type SubscriptionUtilization struct {
	Name         string          `json:"name"`
	Cost         decimal.Decimal `json:"cost"`
	MaxUsers     int             `json:"max_users"`
	CurrentUsers int             `json:"current_users"`
	Utilization  float64         `json:"utilization"`
}

// AnalyzeSubscriptions counts, for each subscription, the users whose client
// is on that subscription, against the tier's user capacity.
func AnalyzeSubscriptions(ds *models.Dataset) []SubscriptionUtilization {
	// client id -> subscription id membership
	clientSub := make(map[int]int, len(ds.Clients))
	for _, c := range ds.Clients {
		if c.ClientID != nil && c.SubscriptionID != nil {
			clientSub[*c.ClientID] = *c.SubscriptionID
		}
	}
	// users per subscription via client membership
	usersPerSub := make(map[int]int)
	for _, u := range ds.Users {
		if u.ClientID == nil {
			continue
		}
		if sid, ok := clientSub[*u.ClientID]; ok {
			usersPerSub[sid]++
		}
	}

	result := make([]SubscriptionUtilization, 0, len(ds.Subscriptions))
	for _, s := range ds.Subscriptions {
		current := usersPerSub[s.SubscriptionID]
		result = append(result, SubscriptionUtilization{
			Name:         s.Name,
			Cost:         s.Cost,
			MaxUsers:     s.NoOfUsers,
			CurrentUsers: current,
			Utilization:  utilizationPct(current, s.NoOfUsers),
		})
	}
	return result
}

// ClientUtilization is one client's user count against their subscription's
// capacity.
type ClientUtilization struct {
	ClientID         int     `json:"client_id"`
	ClientName       string  `json:"client_name"`
	SubscriptionID   int     `json:"subscription_id"`
	SubscriptionName string  `json:"subscription_name"`
	MaxUsers         int     `json:"max_users"`
	CurrentUsers     int     `json:"current_users"`
	Utilization      float64 `json:"utilization"`
}

// AnalyzeClientUtilization resolves each client's subscription through the
// index. A missing subscription reference yields an empty name and zero
// capacity, never an error.
func AnalyzeClientUtilization(ds *models.Dataset, subs SubscriptionIndex) []ClientUtilization {
	usersPerClient := make(map[int]int)
	for _, u := range ds.Users {
		if u.ClientID != nil {
			usersPerClient[*u.ClientID]++
		}
	}

	result := make([]ClientUtilization, 0, len(ds.Clients))
	for _, c := range ds.Clients {
		if c.ClientID == nil {
			continue
		}
		entry := ClientUtilization{
			ClientID:     *c.ClientID,
			ClientName:   c.LegalName,
			CurrentUsers: usersPerClient[*c.ClientID],
		}
		if c.SubscriptionID != nil {
			entry.SubscriptionID = *c.SubscriptionID
			if sub, ok := subs[*c.SubscriptionID]; ok {
				entry.SubscriptionName = sub.Name
				entry.MaxUsers = sub.NoOfUsers
			}
		}
		entry.Utilization = utilizationPct(entry.CurrentUsers, entry.MaxUsers)
		result = append(result, entry)
	}
	return result
}

// OrderStats summarizes the orders extract on its own.
type OrderStats struct {
	AvgOrderValue    decimal.Decimal
	AvgFoodAmount    decimal.Decimal
	AvgDrinksAmount  decimal.Decimal
	TypeDistribution map[string]int
	AvgDeliveryValue decimal.Decimal
	AvgDineInValue   decimal.Decimal
}

// AnalyzeOrders computes order value averages and the order-type split.
func AnalyzeOrders(ds *models.Dataset) OrderStats {
	stats := OrderStats{TypeDistribution: make(map[string]int)}
	if len(ds.Orders) == 0 {
		return stats
	}

	var total, food, drinks decimal.Decimal
	var deliveryTotal, dineInTotal decimal.Decimal
	var deliveryCount, dineInCount int
	for _, o := range ds.Orders {
		total = total.Add(o.OrderTotal)
		food = food.Add(o.FoodAmount)
		drinks = drinks.Add(o.DrinksAmount)
		stats.TypeDistribution[o.OrderType]++
		switch o.OrderType {
		case "Home Delivery":
			deliveryTotal = deliveryTotal.Add(o.OrderTotal)
			deliveryCount++
		case "Dine-in":
			dineInTotal = dineInTotal.Add(o.OrderTotal)
			dineInCount++
		}
	}
	stats.AvgOrderValue = meanDecimal(total, len(ds.Orders))
	stats.AvgFoodAmount = meanDecimal(food, len(ds.Orders))
	stats.AvgDrinksAmount = meanDecimal(drinks, len(ds.Orders))
	stats.AvgDeliveryValue = meanDecimal(deliveryTotal, deliveryCount)
	stats.AvgDineInValue = meanDecimal(dineInTotal, dineInCount)
	return stats
}

// RevenueBreakdown is the five-way revenue category split.
type RevenueBreakdown struct {
	FoodRevenue     decimal.Decimal `json:"food_revenue"`
	DrinksRevenue   decimal.Decimal `json:"drinks_revenue"`
	OtherRevenue    decimal.Decimal `json:"other_revenue"`
	ServiceCharges  decimal.Decimal `json:"service_charges"`
	DeliveryCharges decimal.Decimal `json:"delivery_charges"`
}

// ExpenseBreakdown is the five-way expense category split.
type ExpenseBreakdown struct {
	Bills       decimal.Decimal `json:"bills"`
	Vendors     decimal.Decimal `json:"vendors"`
	WageAdvance decimal.Decimal `json:"wage_advance"`
	Repairs     decimal.Decimal `json:"repairs"`
	Sundries    decimal.Decimal `json:"sundries"`
}

// ExpenseVolatility is the sample std of the most volatile expense lines.
type ExpenseVolatility struct {
	RepairsStd float64 `json:"repairs_std"`
	BillsStd   float64 `json:"bills_std"`
	WageStd    float64 `json:"wage_std"`
}

// Financials is the global revenue/expense/profit picture.
type Financials struct {
	TotalRevenue     decimal.Decimal
	Revenue          RevenueBreakdown
	AvgDailyRevenue  decimal.Decimal
	TotalExpenses    decimal.Decimal
	Expenses         ExpenseBreakdown
	AvgDailyExpenses decimal.Decimal
	Volatility       ExpenseVolatility
	NetProfit        decimal.Decimal
	ProfitMargin     float64
}

// ComputeFinancials totals revenue and expense components across all sales
// and expense rows (date alignment not required here). Profit margin stays 0
// when total revenue is zero.
func ComputeFinancials(ds *models.Dataset) Financials {
	var f Financials

	var food, drinks, other, service, delivery decimal.Decimal
	for _, s := range ds.Sales {
		food = food.Add(s.FoodPayment)
		drinks = drinks.Add(s.DrinksPayment)
		other = other.Add(s.OtherPayment)
		service = service.Add(s.ServiceCharges)
		delivery = delivery.Add(s.DeliveryCharges)
	}
	total := food.Add(drinks).Add(other).Add(service).Add(delivery)
	f.TotalRevenue = total.Round(2)
	f.Revenue = RevenueBreakdown{
		FoodRevenue:     food.Round(2),
		DrinksRevenue:   drinks.Round(2),
		OtherRevenue:    other.Round(2),
		ServiceCharges:  service.Round(2),
		DeliveryCharges: delivery.Round(2),
	}
	f.AvgDailyRevenue = meanDecimal(total, len(ds.Sales))

	var amount, bills, vendors, wage, repairs, sundries decimal.Decimal
	repairsVals := make([]float64, 0, len(ds.Expenses))
	billsVals := make([]float64, 0, len(ds.Expenses))
	wageVals := make([]float64, 0, len(ds.Expenses))
	for _, e := range ds.Expenses {
		amount = amount.Add(e.Amount)
		bills = bills.Add(e.Bills)
		vendors = vendors.Add(e.Vendors)
		wage = wage.Add(e.WageAdvance)
		repairs = repairs.Add(e.Repairs)
		sundries = sundries.Add(e.Sundries)
		repairsVals = append(repairsVals, e.Repairs.InexactFloat64())
		billsVals = append(billsVals, e.Bills.InexactFloat64())
		wageVals = append(wageVals, e.WageAdvance.InexactFloat64())
	}
	f.TotalExpenses = amount.Round(2)
	f.Expenses = ExpenseBreakdown{
		Bills:       bills.Round(2),
		Vendors:     vendors.Round(2),
		WageAdvance: wage.Round(2),
		Repairs:     repairs.Round(2),
		Sundries:    sundries.Round(2),
	}
	f.AvgDailyExpenses = meanDecimal(amount, len(ds.Expenses))
	f.Volatility = ExpenseVolatility{
		RepairsStd: round2(sampleStd(repairsVals)),
		BillsStd:   round2(sampleStd(billsVals)),
		WageStd:    round2(sampleStd(wageVals)),
	}

	f.NetProfit = f.TotalRevenue.Sub(f.TotalExpenses)
	if f.TotalRevenue.IsPositive() {
		margin, _ := f.NetProfit.Div(f.TotalRevenue).Mul(decimal.NewFromInt(100)).Round(2).Float64()
		f.ProfitMargin = margin
	}
	return f
}

// ReconciliationDay is one cashup record's match flag for date filtering.
type ReconciliationDay struct {
	RestaurantID int    `json:"restaurant_id"`
	Date         string `json:"date"`
	IsMatch      bool   `json:"is_match"`
}

// Reconciliation is the cashup/banking reconciliation picture.
type Reconciliation struct {
	Rate               float64
	Daily              []ReconciliationDay
	AvgBankingVariance decimal.Decimal
	MaxBankingVariance decimal.Decimal
}

// AnalyzeReconciliation computes the match rate over all cashups, the
// per-day match series, and the banking variance over the inner join of
// cashup and banking on banking_id. Cashups without a banking match are
// excluded from the variance, not zero-filled.
func AnalyzeReconciliation(ds *models.Dataset) Reconciliation {
	var rec Reconciliation
	if len(ds.Cashups) == 0 {
		return rec
	}

	matched := 0
	for _, c := range ds.Cashups {
		if c.IsMatch {
			matched++
		}
		if c.RestaurantID != nil && c.Date != nil {
			rec.Daily = append(rec.Daily, ReconciliationDay{
				RestaurantID: *c.RestaurantID,
				Date:         models.FormatDate(*c.Date),
				IsMatch:      c.IsMatch,
			})
		}
	}
	rec.Rate = round2(float64(matched) / float64(len(ds.Cashups)) * 100)

	banking := make(map[int]models.Banking, len(ds.Banking))
	for _, b := range ds.Banking {
		if b.BankingID != nil {
			banking[*b.BankingID] = b
		}
	}
	var varianceSum, varianceMax decimal.Decimal
	pairs := 0
	for _, c := range ds.Cashups {
		if c.BankingID == nil {
			continue
		}
		b, ok := banking[*c.BankingID]
		if !ok {
			continue
		}
		v := b.EODAmount.Sub(b.BankingTotal).Abs()
		varianceSum = varianceSum.Add(v)
		if v.GreaterThan(varianceMax) {
			varianceMax = v
		}
		pairs++
	}
	if pairs > 0 {
		rec.AvgBankingVariance = meanDecimal(varianceSum, pairs)
		rec.MaxBankingVariance = varianceMax.Round(2)
	}
	return rec
}

// RestaurantPerformance is one row of the top-performers table.
type RestaurantPerformance struct {
	Name        string          `json:"name"`
	Country     string          `json:"country"`
	DailyOrders float64         `json:"daily_orders"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// TopRestaurants ranks restaurants by total order revenue, descending, ties
// broken by input order. DailyOrders assumes a full-year loaded period.
func TopRestaurants(ds *models.Dataset, n int) []RestaurantPerformance {
	type perf struct {
		id      int
		orders  int
		revenue decimal.Decimal
	}
	totals := make(map[int]*perf)
	var order []int
	for _, o := range ds.Orders {
		if o.RestaurantID == nil {
			continue
		}
		p, ok := totals[*o.RestaurantID]
		if !ok {
			p = &perf{id: *o.RestaurantID}
			totals[*o.RestaurantID] = p
			order = append(order, *o.RestaurantID)
		}
		p.orders++
		p.revenue = p.revenue.Add(o.OrderTotal)
	}

	ranked := make([]*perf, 0, len(order))
	for _, id := range order {
		ranked = append(ranked, totals[id])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].revenue.GreaterThan(ranked[j].revenue)
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	meta := buildMetaIndex(ds)
	result := make([]RestaurantPerformance, 0, len(ranked))
	for _, p := range ranked {
		m, ok := meta[p.id]
		if !ok {
			m = restaurantMeta{country: countryLabel(0)}
		}
		result = append(result, RestaurantPerformance{
			Name:        m.name,
			Country:     m.country,
			DailyOrders: round1(float64(p.orders) / 365.0),
			Revenue:     p.revenue.Round(2),
		})
	}
	return result
}

// AvgOrdersPerStaff is orders-per-restaurant over users-per-restaurant,
// i.e. how many orders each staff member handles on average.
func AvgOrdersPerStaff(ds *models.Dataset) float64 {
	if len(ds.Restaurants) == 0 || len(ds.Users) == 0 || len(ds.Orders) == 0 {
		return 0
	}
	usersPerRestaurant := float64(len(ds.Users)) / float64(len(ds.Restaurants))
	ordersPerRestaurant := float64(len(ds.Orders)) / float64(len(ds.Restaurants))
	return round2(ordersPerRestaurant / usersPerRestaurant)
}

// ClientEntry is one row of the dashboard's client filter list.
type ClientEntry struct {
	ClientID         int    `json:"client_id"`
	ClientName       string `json:"client_name"`
	IsActive         bool   `json:"is_active"`
	SubscriptionID   *int   `json:"subscription_id"`
	SubscriptionName string `json:"subscription_name"`
}

// RestaurantEntry is one row of the restaurant filter list.
type RestaurantEntry struct {
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
	ClientID     int    `json:"client_id"`
}

// UserEntry is one row of the user filter list.
type UserEntry struct {
	UserID       int  `json:"user_id"`
	ClientID     *int `json:"client_id"`
	RestaurantID *int `json:"restaurant_id"`
}

// BuildFilterLists shapes the lightweight lists the dashboard filters on.
// Clients and restaurants sort by name; users keep input order.
func BuildFilterLists(ds *models.Dataset, subs SubscriptionIndex) ([]ClientEntry, []RestaurantEntry, []UserEntry) {
	clients := make([]ClientEntry, 0, len(ds.Clients))
	for _, c := range ds.Clients {
		if c.ClientID == nil {
			continue
		}
		entry := ClientEntry{
			ClientID:       *c.ClientID,
			ClientName:     c.LegalName,
			IsActive:       c.IsActive,
			SubscriptionID: c.SubscriptionID,
		}
		if c.SubscriptionID != nil {
			if sub, ok := subs[*c.SubscriptionID]; ok {
				entry.SubscriptionName = sub.Name
			}
		}
		clients = append(clients, entry)
	}
	sort.SliceStable(clients, func(i, j int) bool {
		return clients[i].ClientName < clients[j].ClientName
	})

	restaurants := make([]RestaurantEntry, 0, len(ds.Restaurants))
	for _, r := range ds.Restaurants {
		if r.ID == nil {
			continue
		}
		entry := RestaurantEntry{RestaurantID: *r.ID, Name: r.Name}
		if r.ClientID != nil {
			entry.ClientID = *r.ClientID
		}
		restaurants = append(restaurants, entry)
	}
	sort.SliceStable(restaurants, func(i, j int) bool {
		return restaurants[i].Name < restaurants[j].Name
	})

	users := make([]UserEntry, 0, len(ds.Users))
	for _, u := range ds.Users {
		if u.UserID == nil {
			continue
		}
		users = append(users, UserEntry{
			UserID:       *u.UserID,
			ClientID:     u.ClientID,
			RestaurantID: u.RestaurantID,
		})
	}

	return clients, restaurants, users
}
