package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"ros_backend/pkg/models"
)

func init() {
	// The dashboard consumes money fields as plain JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// SummaryMetrics is the headline KPI block.
type SummaryMetrics struct {
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetProfit          decimal.Decimal `json:"net_profit"`
	ProfitMargin       float64         `json:"profit_margin"`
	ReconciliationRate float64         `json:"reconciliation_rate"`
	TotalOrders        int             `json:"total_orders"`
	AvgOrderValue      decimal.Decimal `json:"avg_order_value"`
}

// OperationalMetrics is the estate/staffing block.
type OperationalMetrics struct {
	TotalRestaurants  int     `json:"total_restaurants"`
	UKRestaurants     int     `json:"uk_restaurants"`
	IndiaRestaurants  int     `json:"india_restaurants"`
	TotalUsers        int     `json:"total_users"`
	ActiveClients     int     `json:"active_clients"`
	InactiveClients   int     `json:"inactive_clients"`
	AvgOrdersPerStaff float64 `json:"avg_orders_per_staff"`
}

// FinancialBreakdown is the category-level financial block.
type FinancialBreakdown struct {
	Revenue         RevenueBreakdown `json:"revenue"`
	Expenses        ExpenseBreakdown `json:"expenses"`
	BankingVariance decimal.Decimal  `json:"banking_variance"`
}

// Snapshot is the externally consumed dashboard document. Assembly is pure
// shaping: missing upstream aggregates leave zero values or empty lists.
type Snapshot struct {
	LastUpdated                   string                    `json:"last_updated"`
	SummaryMetrics                SummaryMetrics            `json:"summary_metrics"`
	OperationalMetrics            OperationalMetrics        `json:"operational_metrics"`
	FinancialBreakdown            FinancialBreakdown        `json:"financial_breakdown"`
	RestaurantPerformance         []RestaurantPerformance   `json:"restaurant_performance"`
	SubscriptionUtilization       []SubscriptionUtilization `json:"subscription_utilization"`
	PerRestaurantDaily            []DailyFact               `json:"per_restaurant_daily"`
	RestaurantsSummary            []RestaurantSummary       `json:"restaurants_summary"`
	ClientsList                   []ClientEntry             `json:"clients_list"`
	RestaurantsList               []RestaurantEntry         `json:"restaurants_list"`
	ReconciliationDaily           []ReconciliationDay       `json:"reconciliation_daily"`
	UsersList                     []UserEntry               `json:"users_list"`
	ClientSubscriptionUtilization []ClientUtilization       `json:"client_subscription_utilization"`

	// Row-drop counters for the operational feeds.
	DataQuality models.DataQuality `json:"data_quality"`
}

// Assemble shapes the metrics into the dashboard snapshot. No computation
// happens here beyond stamping last_updated.
func Assemble(m *Metrics) *Snapshot {
	snap := &Snapshot{
		LastUpdated: time.Now().Format(time.RFC3339),
		SummaryMetrics: SummaryMetrics{
			TotalRevenue:       m.Financials.TotalRevenue,
			TotalExpenses:      m.Financials.TotalExpenses,
			NetProfit:          m.Financials.NetProfit,
			ProfitMargin:       m.Financials.ProfitMargin,
			ReconciliationRate: m.Reconciliation.Rate,
			TotalOrders:        m.Counts.TotalOrders,
			AvgOrderValue:      m.Orders.AvgOrderValue,
		},
		OperationalMetrics: OperationalMetrics{
			TotalRestaurants:  m.Counts.TotalRestaurants,
			UKRestaurants:     m.Counts.UKRestaurants,
			IndiaRestaurants:  m.Counts.IndiaRestaurants,
			TotalUsers:        m.Counts.TotalUsers,
			ActiveClients:     m.Counts.ActiveClients,
			InactiveClients:   m.Counts.InactiveClients,
			AvgOrdersPerStaff: m.AvgOrdersPerStaff,
		},
		FinancialBreakdown: FinancialBreakdown{
			Revenue:         m.Financials.Revenue,
			Expenses:        m.Financials.Expenses,
			BankingVariance: m.Reconciliation.AvgBankingVariance,
		},
		RestaurantPerformance:         emptyIfNil(m.Performance),
		SubscriptionUtilization:       emptyIfNil(m.Subscriptions),
		PerRestaurantDaily:            emptyIfNil(m.Daily),
		RestaurantsSummary:            emptyIfNil(m.Summaries),
		ClientsList:                   emptyIfNil(m.Clients),
		RestaurantsList:               emptyIfNil(m.Restaurants),
		ReconciliationDaily:           emptyIfNil(m.Reconciliation.Daily),
		UsersList:                     emptyIfNil(m.Users),
		ClientSubscriptionUtilization: emptyIfNil(m.ClientUtilization),
		DataQuality:                   m.Quality,
	}
	return snap
}

// emptyIfNil keeps list sections serializing as [] instead of null.
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
