package model

import "strings"

// LineItemCategory tags a line for reporting. It never affects arithmetic.
type LineItemCategory string

const (
	CategoryRoom      LineItemCategory = "room"
	CategoryFood      LineItemCategory = "food"
	CategoryBeverage  LineItemCategory = "beverage"
	CategoryLaundry   LineItemCategory = "laundry"
	CategoryTelephone LineItemCategory = "telephone"
	CategoryInternet  LineItemCategory = "internet"
	CategorySpa       LineItemCategory = "spa"
	CategoryMinibar   LineItemCategory = "minibar"
	CategoryTransport LineItemCategory = "transport"
	CategoryOther     LineItemCategory = "other"
)

var Categories = []LineItemCategory{
	CategoryRoom, CategoryFood, CategoryBeverage, CategoryLaundry, CategoryTelephone,
	CategoryInternet, CategorySpa, CategoryMinibar, CategoryTransport, CategoryOther,
}

func (c LineItemCategory) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Currency string

const (
	CurrencyINR Currency = "INR"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
	CurrencyGBP Currency = "GBP"
)

var Currencies = []Currency{CurrencyINR, CurrencyUSD, CurrencyEUR, CurrencyGBP}

func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

// ParseCurrency upper-cases raw and falls back to def when raw is empty.
func ParseCurrency(raw string, def Currency) Currency {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return def
	}
	return Currency(raw)
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentUPI          PaymentMethod = "upi"
	PaymentRoomCharge   PaymentMethod = "room_charge"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentWallet       PaymentMethod = "wallet"
)

var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCard, PaymentUPI, PaymentRoomCharge, PaymentBankTransfer, PaymentWallet,
}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

type InvoiceStatus string

const (
	InvoicePending       InvoiceStatus = "pending"
	InvoicePartiallyPaid InvoiceStatus = "partially_paid"
	InvoicePaid          InvoiceStatus = "paid"
	InvoiceOverdue       InvoiceStatus = "overdue"
	InvoiceCancelled     InvoiceStatus = "cancelled"
)

var InvoiceStatuses = []InvoiceStatus{
	InvoicePending, InvoicePartiallyPaid, InvoicePaid, InvoiceOverdue, InvoiceCancelled,
}

func (s InvoiceStatus) Valid() bool {
	for _, v := range InvoiceStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type OrderStatus string

const (
	OrderOpen          OrderStatus = "open"
	OrderSettled       OrderStatus = "settled"
	OrderPostedToFolio OrderStatus = "posted_to_folio"
	OrderVoid          OrderStatus = "void"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderOpen, OrderSettled, OrderPostedToFolio, OrderVoid:
		return true
	}
	return false
}
