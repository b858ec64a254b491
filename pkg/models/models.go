package models

import (
	"time"

	"github.com/shopspring/decimal"

	"ros_backend/pkg/extract"
)

// Client mirrors one row of the clients extract.
type Client struct {
	ClientID       *int
	LegalName      string
	IsActive       bool
	SubscriptionID *int
}

// Restaurant mirrors one row of the restaurants extract.
// CountryID 1 is UK, 2 is India; anything else is a data-quality condition
// and gets labeled India downstream.
type Restaurant struct {
	ID        *int
	Name      string
	CountryID int
	ClientID  *int
}

// User mirrors one row of the users extract.
type User struct {
	UserID       *int
	ClientID     *int
	RestaurantID *int
}

// Subscription mirrors one row of the subscriptions extract. Name resolves
// from subscription_name, falling back to display_name when that column is
// absent from the extract.
type Subscription struct {
	SubscriptionID int
	Name           string
	Cost           decimal.Decimal
	NoOfUsers      int
}

// Order mirrors one row of the orders extract. OrderDate is day-first in the
// feed and nil when unparsable.
type Order struct {
	OrderID      *int
	RestaurantID *int
	OrderDate    *time.Time
	OrderType    string
	OrderTotal   decimal.Decimal
	FoodAmount   decimal.Decimal
	DrinksAmount decimal.Decimal
}

// SaleDay mirrors one row of the sales extract: the five revenue components
// for one restaurant-day.
type SaleDay struct {
	RestaurantID    *int
	Date            *time.Time
	FoodPayment     decimal.Decimal
	DrinksPayment   decimal.Decimal
	OtherPayment    decimal.Decimal
	ServiceCharges  decimal.Decimal
	DeliveryCharges decimal.Decimal
}

// Revenue sums the five payment/charge components.
func (s SaleDay) Revenue() decimal.Decimal {
	return s.FoodPayment.Add(s.DrinksPayment).Add(s.OtherPayment).
		Add(s.ServiceCharges).Add(s.DeliveryCharges)
}

// ExpenseDay mirrors one row of the expenses extract. Amount is trusted as
// given, not re-derived from the category breakdown.
type ExpenseDay struct {
	RestaurantID *int
	Date         *time.Time
	Amount       decimal.Decimal
	Bills        decimal.Decimal
	Vendors      decimal.Decimal
	WageAdvance  decimal.Decimal
	Repairs      decimal.Decimal
	Sundries     decimal.Decimal
}

// CashupRecord mirrors one row of the cashup extract.
type CashupRecord struct {
	RestaurantID *int
	Date         *time.Time
	IsMatch      bool
	BankingID    *int
}

// Banking mirrors one row of the banking extract.
type Banking struct {
	BankingID    *int
	EODAmount    decimal.Decimal
	BankingTotal decimal.Decimal
}

// DataQuality counts rows that will silently miss the date joins (nil
// restaurant id or unparsable date) plus out-of-domain country ids. The
// counters ride along into the snapshot as a quality metric.
type DataQuality struct {
	DroppedOrderRows          int `json:"dropped_order_rows"`
	DroppedSalesRows          int `json:"dropped_sales_rows"`
	DroppedExpenseRows        int `json:"dropped_expense_rows"`
	DroppedCashupRows         int `json:"dropped_cashup_rows"`
	UnknownCountryRestaurants int `json:"unknown_country_restaurants"`
}

// Dataset is the full decoded extract set. Loaded once at pipeline start,
// read-only afterwards.
type Dataset struct {
	Clients       []Client
	Restaurants   []Restaurant
	Users         []User
	Subscriptions []Subscription
	Orders        []Order
	Sales         []SaleDay
	Expenses      []ExpenseDay
	Cashups       []CashupRecord
	Banking       []Banking

	Quality DataQuality
}

// Decode normalizes the raw table set into typed records. Bad values degrade
// to nil/zero per field; Decode itself never fails once the nine extracts
// loaded.
func Decode(set extract.Set) *Dataset {
	ds := &Dataset{}
	ds.decodeClients(set.Table("clients"))
	ds.decodeRestaurants(set.Table("restaurants"))
	ds.decodeUsers(set.Table("users"))
	ds.decodeSubscriptions(set.Table("subscriptions"))
	ds.decodeOrders(set.Table("orders"))
	ds.decodeSales(set.Table("sales"))
	ds.decodeExpenses(set.Table("expenses"))
	ds.decodeCashups(set.Table("cashup"))
	ds.decodeBanking(set.Table("banking"))
	return ds
}

func (ds *Dataset) decodeClients(t *extract.Table) {
	ds.Clients = make([]Client, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ds.Clients = append(ds.Clients, Client{
			ClientID:       parseIntPtr(t.Field(i, "client_id")),
			LegalName:      t.Field(i, "legal_name"),
			IsActive:       parseBool(t.Field(i, "is_active")),
			SubscriptionID: parseIntPtr(t.Field(i, "subscription_id")),
		})
	}
}

func (ds *Dataset) decodeRestaurants(t *extract.Table) {
	ds.Restaurants = make([]Restaurant, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		r := Restaurant{
			ID:        parseIntPtr(t.Field(i, "id")),
			Name:      t.Field(i, "name"),
			CountryID: parseInt(t.Field(i, "country_id"), 0),
			ClientID:  parseIntPtr(t.Field(i, "client_id")),
		}
		if r.CountryID != 1 && r.CountryID != 2 {
			ds.Quality.UnknownCountryRestaurants++
		}
		ds.Restaurants = append(ds.Restaurants, r)
	}
}

func (ds *Dataset) decodeUsers(t *extract.Table) {
	ds.Users = make([]User, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ds.Users = append(ds.Users, User{
			UserID:       parseIntPtr(t.Field(i, "user_id")),
			ClientID:     parseIntPtr(t.Field(i, "client_id")),
			RestaurantID: parseIntPtr(t.Field(i, "restaurant_id")),
		})
	}
}

func (ds *Dataset) decodeSubscriptions(t *extract.Table) {
	nameCol := "subscription_name"
	if !t.HasCol(nameCol) && t.HasCol("display_name") {
		nameCol = "display_name"
	}
	ds.Subscriptions = make([]Subscription, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ds.Subscriptions = append(ds.Subscriptions, Subscription{
			SubscriptionID: parseInt(t.Field(i, "subscription_id"), 0),
			Name:           t.Field(i, nameCol),
			Cost:           parseDecimal(t.Field(i, "cost")),
			NoOfUsers:      parseInt(t.Field(i, "no_of_users"), 0),
		})
	}
}

func (ds *Dataset) decodeOrders(t *extract.Table) {
	ds.Orders = make([]Order, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		o := Order{
			OrderID:      parseIntPtr(t.Field(i, "order_id")),
			RestaurantID: parseIntPtr(t.Field(i, "restaurant_id")),
			OrderDate:    ParseDate(t.Field(i, "order_date"), DateDayFirst),
			OrderType:    t.Field(i, "order_type"),
			OrderTotal:   parseDecimal(t.Field(i, "order_total")),
			FoodAmount:   parseDecimal(t.Field(i, "food_amount")),
			DrinksAmount: parseDecimal(t.Field(i, "drinks_amount")),
		}
		if o.RestaurantID == nil || o.OrderDate == nil {
			ds.Quality.DroppedOrderRows++
		}
		ds.Orders = append(ds.Orders, o)
	}
}

func (ds *Dataset) decodeSales(t *extract.Table) {
	ds.Sales = make([]SaleDay, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		s := SaleDay{
			RestaurantID:    parseIntPtr(t.Field(i, "restaurant_id")),
			Date:            ParseDate(t.Field(i, "date"), DateISO),
			FoodPayment:     parseDecimal(t.Field(i, "food_payment")),
			DrinksPayment:   parseDecimal(t.Field(i, "drinks_payment")),
			OtherPayment:    parseDecimal(t.Field(i, "other_payment")),
			ServiceCharges:  parseDecimal(t.Field(i, "service_charges")),
			DeliveryCharges: parseDecimal(t.Field(i, "delivery_charges")),
		}
		if s.RestaurantID == nil || s.Date == nil {
			ds.Quality.DroppedSalesRows++
		}
		ds.Sales = append(ds.Sales, s)
	}
}

func (ds *Dataset) decodeExpenses(t *extract.Table) {
	ds.Expenses = make([]ExpenseDay, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		e := ExpenseDay{
			RestaurantID: parseIntPtr(t.Field(i, "restaurant_id")),
			Date:         ParseDate(t.Field(i, "exp_date"), DateISO),
			Amount:       parseDecimal(t.Field(i, "amount")),
			Bills:        parseDecimal(t.Field(i, "bills")),
			Vendors:      parseDecimal(t.Field(i, "vendors")),
			WageAdvance:  parseDecimal(t.Field(i, "wage_advance")),
			Repairs:      parseDecimal(t.Field(i, "repairs")),
			Sundries:     parseDecimal(t.Field(i, "sundries")),
		}
		if e.RestaurantID == nil || e.Date == nil {
			ds.Quality.DroppedExpenseRows++
		}
		ds.Expenses = append(ds.Expenses, e)
	}
}

func (ds *Dataset) decodeCashups(t *extract.Table) {
	ds.Cashups = make([]CashupRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		c := CashupRecord{
			RestaurantID: parseIntPtr(t.Field(i, "restaurant_id")),
			Date:         ParseDate(t.Field(i, "cash_up_date"), DateISO),
			IsMatch:      parseBool(t.Field(i, "is_match")),
			BankingID:    parseIntPtr(t.Field(i, "banking_id")),
		}
		if c.RestaurantID == nil || c.Date == nil {
			ds.Quality.DroppedCashupRows++
		}
		ds.Cashups = append(ds.Cashups, c)
	}
}

func (ds *Dataset) decodeBanking(t *extract.Table) {
	ds.Banking = make([]Banking, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		ds.Banking = append(ds.Banking, Banking{
			BankingID:    parseIntPtr(t.Field(i, "banking_id")),
			EODAmount:    parseDecimal(t.Field(i, "eod_amount")),
			BankingTotal: parseDecimal(t.Field(i, "banking_total")),
		})
	}
}
