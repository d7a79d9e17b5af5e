package dto

import "github.com/shopspring/decimal"

type CreateItemInput struct {
	PropertyID     string
	Code           string
	Name           string
	Description    string
	Category       string
	UnitPrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
}

type UpdateItemInput struct {
	ID             string
	PropertyID     string
	Code           string
	Name           string
	Description    string
	Category       string
	UnitPrice      decimal.Decimal
	TaxRatePercent decimal.Decimal
	IsActive       bool
}
