package report

import (
	"fmt"
	"sort"
	"strings"

	"ros_backend/pkg/analytics"
)

const reconciliationTarget = 95.0

// Print writes the human-readable analysis report to stdout. Purely a
// consumer of the metrics; nothing here feeds back into the snapshot.
func Print(m *analytics.Metrics) {
	line := strings.Repeat("=", 60)

	fmt.Println("\n" + line)
	fmt.Println("🏪 ROS SYSTEM ANALYSIS REPORT")
	fmt.Println(line)

	fmt.Println("\n📊 SYSTEM OVERVIEW")
	fmt.Printf("   • Total Clients: %d\n", m.Counts.TotalClients)
	fmt.Printf("   • Total Restaurants: %d\n", m.Counts.TotalRestaurants)
	fmt.Printf("   • Total Users: %d\n", m.Counts.TotalUsers)
	fmt.Printf("   • Active Clients: %d (%d inactive)\n", m.Counts.ActiveClients, m.Counts.InactiveClients)

	fmt.Println("\n🌍 GEOGRAPHIC DISTRIBUTION")
	fmt.Printf("   • UK Restaurants: %d\n", m.Counts.UKRestaurants)
	fmt.Printf("   • India Restaurants: %d\n", m.Counts.IndiaRestaurants)

	fmt.Println("\n💰 FINANCIAL PERFORMANCE")
	fmt.Printf("   • Total Revenue: £%s\n", m.Financials.TotalRevenue.StringFixed(2))
	fmt.Printf("   • Total Expenses: £%s\n", m.Financials.TotalExpenses.StringFixed(2))
	fmt.Printf("   • Net Profit: £%s\n", m.Financials.NetProfit.StringFixed(2))
	fmt.Printf("   • Profit Margin: %.1f%%\n", m.Financials.ProfitMargin)

	fmt.Println("\n🛍️ ORDER ANALYSIS")
	fmt.Printf("   • Average Order Value: £%s\n", m.Orders.AvgOrderValue.StringFixed(2))
	for _, orderType := range sortedKeys(m.Orders.TypeDistribution) {
		fmt.Printf("   • %s: %d orders\n", orderType, m.Orders.TypeDistribution[orderType])
	}

	fmt.Println("\n🔄 RECONCILIATION STATUS")
	fmt.Printf("   • Reconciliation Success Rate: %.1f%%\n", m.Reconciliation.Rate)
	if m.Reconciliation.Rate < reconciliationTarget {
		fmt.Printf("   ⚠️  Below target rate of %.1f%%\n", reconciliationTarget)
	}

	fmt.Println("\n📈 SUBSCRIPTION UTILIZATION")
	for _, sub := range m.Subscriptions {
		fmt.Printf("   • %s: %d/%d users (%.1f%% utilized)\n",
			sub.Name, sub.CurrentUsers, sub.MaxUsers, sub.Utilization)
	}

	fmt.Println("\n" + line)
	fmt.Println("📊 Analysis complete! Dashboard data generated successfully.")
	fmt.Println(line)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
