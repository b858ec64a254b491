package analytics

import (
	"log"

	"ros_backend/pkg/models"
)

// Options controls pipeline failure behavior. Strict turns join-stage
// failures into hard errors; the default degrades to the restaurant-level
// fallback so the caller still gets a best-effort snapshot.
type Options struct {
	Strict bool
}

// Metrics is everything the aggregation stage derives from one dataset.
type Metrics struct {
	Counts            GlobalCounts
	Subscriptions     []SubscriptionUtilization
	ClientUtilization []ClientUtilization
	Orders            OrderStats
	Financials        Financials
	Reconciliation    Reconciliation
	Performance       []RestaurantPerformance
	AvgOrdersPerStaff float64

	Daily     []DailyFact
	Summaries []RestaurantSummary

	Clients     []ClientEntry
	Restaurants []RestaurantEntry
	Users       []UserEntry

	Quality models.DataQuality
}

// Analyze runs the full aggregation pass over a decoded dataset. Only the
// daily join can fail; every other aggregate degrades to zero values on its
// own.
func Analyze(ds *models.Dataset, opts Options) (*Metrics, error) {
	subs := BuildSubscriptionIndex(ds)

	m := &Metrics{
		Counts:            CountGlobals(ds),
		Subscriptions:     AnalyzeSubscriptions(ds),
		ClientUtilization: AnalyzeClientUtilization(ds, subs),
		Orders:            AnalyzeOrders(ds),
		Financials:        ComputeFinancials(ds),
		Reconciliation:    AnalyzeReconciliation(ds),
		Performance:       TopRestaurants(ds, 10),
		AvgOrdersPerStaff: AvgOrdersPerStaff(ds),
		Quality:           ds.Quality,
	}
	m.Clients, m.Restaurants, m.Users = BuildFilterLists(ds, subs)

	facts, summaries, err := buildDailyGuarded(ds)
	if err != nil {
		if opts.Strict {
			return nil, err
		}
		log.Printf("⚠️ Could not build per-restaurant daily dataset: %v", err)
		summaries = FallbackSummaries(ds)
		facts = nil
	}
	m.Daily = facts
	m.Summaries = summaries

	return m, nil
}
