package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ros_backend/pkg/models"
)

// DailyFact is one restaurant-day of operational and financial totals, with
// restaurant and client metadata denormalized in. Money fields are rounded
// to two decimals at build time, matching what the dashboard serializes.
type DailyFact struct {
	RestaurantID int             `json:"restaurant_id"`
	Name         string          `json:"name"`
	Country      string          `json:"country"`
	Date         string          `json:"date"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	Expenses     decimal.Decimal `json:"expenses"`
	Profit       decimal.Decimal `json:"profit"`
	ClientID     int             `json:"client_id"`
	ClientName   string          `json:"client_name"`

	// Revenue categories
	FoodPayment     decimal.Decimal `json:"food_payment"`
	DrinksPayment   decimal.Decimal `json:"drinks_payment"`
	OtherPayment    decimal.Decimal `json:"other_payment"`
	ServiceCharges  decimal.Decimal `json:"service_charges"`
	DeliveryCharges decimal.Decimal `json:"delivery_charges"`

	// Expense categories
	Bills       decimal.Decimal `json:"bills"`
	Vendors     decimal.Decimal `json:"vendors"`
	WageAdvance decimal.Decimal `json:"wage_advance"`
	Repairs     decimal.Decimal `json:"repairs"`
	Sundries    decimal.Decimal `json:"sundries"`
}

// RestaurantSummary totals one restaurant over the full loaded period.
type RestaurantSummary struct {
	RestaurantID  int             `json:"restaurant_id"`
	Name          string          `json:"name"`
	Country       string          `json:"country"`
	ClientID      int             `json:"client_id"`
	ClientName    string          `json:"client_name"`
	TotalOrders   int             `json:"total_orders"`
	TotalRevenue  decimal.Decimal `json:"total_revenue"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Profit        decimal.Decimal `json:"profit"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// dayKey is the composite join key for the per-restaurant-per-day fact table.
type dayKey struct {
	restaurantID int
	date         time.Time
}

type salesAgg struct {
	food, drinks, other, service, delivery decimal.Decimal
}

func (a salesAgg) revenue() decimal.Decimal {
	return a.food.Add(a.drinks).Add(a.other).Add(a.service).Add(a.delivery)
}

type expenseAgg struct {
	amount, bills, vendors, wage, repairs, sundries decimal.Decimal
}

// restaurantMeta is the denormalized restaurant/client metadata attached to
// every fact row.
type restaurantMeta struct {
	name       string
	country    string
	clientID   int
	clientName string
}

func buildMetaIndex(ds *models.Dataset) map[int]restaurantMeta {
	clientNames := make(map[int]string, len(ds.Clients))
	for _, c := range ds.Clients {
		if c.ClientID != nil {
			clientNames[*c.ClientID] = c.LegalName
		}
	}
	meta := make(map[int]restaurantMeta, len(ds.Restaurants))
	for _, r := range ds.Restaurants {
		if r.ID == nil {
			continue
		}
		m := restaurantMeta{
			name:    r.Name,
			country: countryLabel(r.CountryID),
		}
		if r.ClientID != nil {
			m.clientID = *r.ClientID
			// A restaurant whose client has no matching Client row keeps an
			// empty client name rather than failing.
			m.clientName = clientNames[*r.ClientID]
		}
		meta[*r.ID] = m
	}
	return meta
}

// BuildDaily left-joins order counts, sales revenue and expense components
// on (restaurant, date) and attaches metadata. The join is anchored on the
// orders grouping: a day with sales or expenses but no orders does not
// appear, which reproduces the dashboard's historical daily series. Rows
// with nil keys never enter the grouping. All maps are hash-keyed by the
// composite key, so the whole pass is O(n).
func BuildDaily(ds *models.Dataset) ([]DailyFact, []RestaurantSummary) {
	// 1. Orders per (restaurant, date), preserving first-seen key order.
	orderCounts := make(map[dayKey]int)
	var keys []dayKey
	for _, o := range ds.Orders {
		if o.RestaurantID == nil || o.OrderDate == nil {
			continue
		}
		k := dayKey{*o.RestaurantID, *o.OrderDate}
		if _, seen := orderCounts[k]; !seen {
			keys = append(keys, k)
		}
		orderCounts[k]++
	}

	// 2. Revenue components per (restaurant, date). Duplicate sale rows for
	// the same day are summed so the fact key stays unique.
	salesByDay := make(map[dayKey]salesAgg)
	for _, s := range ds.Sales {
		if s.RestaurantID == nil || s.Date == nil {
			continue
		}
		k := dayKey{*s.RestaurantID, *s.Date}
		agg := salesByDay[k]
		agg.food = agg.food.Add(s.FoodPayment)
		agg.drinks = agg.drinks.Add(s.DrinksPayment)
		agg.other = agg.other.Add(s.OtherPayment)
		agg.service = agg.service.Add(s.ServiceCharges)
		agg.delivery = agg.delivery.Add(s.DeliveryCharges)
		salesByDay[k] = agg
	}

	// 3. Expense components per (restaurant, date).
	expensesByDay := make(map[dayKey]expenseAgg)
	for _, e := range ds.Expenses {
		if e.RestaurantID == nil || e.Date == nil {
			continue
		}
		k := dayKey{*e.RestaurantID, *e.Date}
		agg := expensesByDay[k]
		agg.amount = agg.amount.Add(e.Amount)
		agg.bills = agg.bills.Add(e.Bills)
		agg.vendors = agg.vendors.Add(e.Vendors)
		agg.wage = agg.wage.Add(e.WageAdvance)
		agg.repairs = agg.repairs.Add(e.Repairs)
		agg.sundries = agg.sundries.Add(e.Sundries)
		expensesByDay[k] = agg
	}

	// 4–6. Left joins on the order keys, zero-fill, profit, metadata.
	meta := buildMetaIndex(ds)
	facts := make([]DailyFact, 0, len(keys))
	for _, k := range keys {
		sales := salesByDay[k]     // zero aggs when unmatched
		expenses := expensesByDay[k]
		revenue := sales.revenue()
		m, ok := meta[k.restaurantID]
		if !ok {
			m = restaurantMeta{country: countryLabel(0)}
		}
		facts = append(facts, DailyFact{
			RestaurantID:    k.restaurantID,
			Name:            m.name,
			Country:         m.country,
			Date:            models.FormatDate(k.date),
			Orders:          orderCounts[k],
			Revenue:         revenue.Round(2),
			Expenses:        expenses.amount.Round(2),
			Profit:          revenue.Sub(expenses.amount).Round(2),
			ClientID:        m.clientID,
			ClientName:      m.clientName,
			FoodPayment:     sales.food.Round(2),
			DrinksPayment:   sales.drinks.Round(2),
			OtherPayment:    sales.other.Round(2),
			ServiceCharges:  sales.service.Round(2),
			DeliveryCharges: sales.delivery.Round(2),
			Bills:           expenses.bills.Round(2),
			Vendors:         expenses.vendors.Round(2),
			WageAdvance:     expenses.wage.Round(2),
			Repairs:         expenses.repairs.Round(2),
			Sundries:        expenses.sundries.Round(2),
		})
	}

	return facts, summarizeDaily(facts)
}

// summarizeDaily rolls the daily facts up per restaurant, in first-seen
// order. Summing the already-rounded daily figures keeps the summaries
// consistent with what a consumer can re-derive from the serialized series.
func summarizeDaily(facts []DailyFact) []RestaurantSummary {
	totals := make(map[int]*RestaurantSummary)
	var order []int
	for _, f := range facts {
		s, ok := totals[f.RestaurantID]
		if !ok {
			s = &RestaurantSummary{
				RestaurantID: f.RestaurantID,
				Name:         f.Name,
				Country:      f.Country,
				ClientID:     f.ClientID,
				ClientName:   f.ClientName,
			}
			totals[f.RestaurantID] = s
			order = append(order, f.RestaurantID)
		}
		s.TotalOrders += f.Orders
		s.TotalRevenue = s.TotalRevenue.Add(f.Revenue)
		s.TotalExpenses = s.TotalExpenses.Add(f.Expenses)
	}

	summaries := make([]RestaurantSummary, 0, len(order))
	for _, id := range order {
		s := totals[id]
		s.Profit = s.TotalRevenue.Sub(s.TotalExpenses).Round(2)
		if s.TotalOrders > 0 {
			s.AvgOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
		}
		s.TotalRevenue = s.TotalRevenue.Round(2)
		s.TotalExpenses = s.TotalExpenses.Round(2)
		summaries = append(summaries, *s)
	}
	return summaries
}

// buildDailyGuarded runs BuildDaily and converts a panic into an error so a
// broken operational extract degrades instead of taking the pipeline down.
func buildDailyGuarded(ds *models.Dataset) (facts []DailyFact, summaries []RestaurantSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			facts, summaries = nil, nil
			err = fmt.Errorf("daily join failed: %v", r)
		}
	}()
	facts, summaries = BuildDaily(ds)
	return facts, summaries, nil
}

// FallbackSummaries computes restaurant-level totals without date alignment:
// each table is filtered by restaurant id independently. Used when the daily
// join cannot be built; guarantees the summary list is never empty as long
// as restaurants loaded.
func FallbackSummaries(ds *models.Dataset) []RestaurantSummary {
	meta := buildMetaIndex(ds)

	orderTotals := make(map[int]int)
	for _, o := range ds.Orders {
		if o.RestaurantID != nil {
			orderTotals[*o.RestaurantID]++
		}
	}
	revenueTotals := make(map[int]decimal.Decimal)
	for _, s := range ds.Sales {
		if s.RestaurantID != nil {
			revenueTotals[*s.RestaurantID] = revenueTotals[*s.RestaurantID].Add(s.Revenue())
		}
	}
	expenseTotals := make(map[int]decimal.Decimal)
	for _, e := range ds.Expenses {
		if e.RestaurantID != nil {
			expenseTotals[*e.RestaurantID] = expenseTotals[*e.RestaurantID].Add(e.Amount)
		}
	}

	summaries := make([]RestaurantSummary, 0, len(ds.Restaurants))
	for _, r := range ds.Restaurants {
		if r.ID == nil {
			continue
		}
		id := *r.ID
		m := meta[id]
		s := RestaurantSummary{
			RestaurantID:  id,
			Name:          m.name,
			Country:       m.country,
			ClientID:      m.clientID,
			ClientName:    m.clientName,
			TotalOrders:   orderTotals[id],
			TotalRevenue:  revenueTotals[id].Round(2),
			TotalExpenses: expenseTotals[id].Round(2),
		}
		s.Profit = s.TotalRevenue.Sub(s.TotalExpenses).Round(2)
		if s.TotalOrders > 0 {
			s.AvgOrderValue = s.TotalRevenue.Div(decimal.NewFromInt(int64(s.TotalOrders))).Round(2)
		}
		summaries = append(summaries, s)
	}
	return summaries
}
