// Package services provides the business data capability the assistant
// answers revenue, customer and product questions from.
package services

import (
	"context"
	"errors"
	"yara_assistant/pkg"
)

// QueryName is a logical backing-store query
type QueryName string

const (
	QueryRevenue  QueryName = "revenue"
	QueryCustomer QueryName = "customer"
	QueryProduct  QueryName = "product"
)

// Revenue periods accepted by the revenue query's "period" parameter
const (
	PeriodLastQuarter  = "last_quarter"
	PeriodLastYear     = "last_year"
	PeriodCurrentMonth = "current_month"
)

// Query parameter names
const (
	ParamPeriod     = "period"
	ParamCustomerID = "customer_id"
	ParamProductID  = "product_id"
)

var (
	// ErrUnavailable is returned by every query when no database is configured
	ErrUnavailable = errors.New("business database not available")

	// ErrUnknownQuery is returned for query names or periods the store does not support
	ErrUnknownQuery = errors.New("unknown query")
)

// Info describes the backing store connection
type Info struct {
	Connected bool     `json:"connected"`
	Type      string   `json:"database_type,omitempty"`
	Tables    []string `json:"tables"`
}

// BusinessData answers logical queries with flat records
type BusinessData interface {
	Available() bool
	Query(ctx context.Context, name QueryName, params map[string]string) ([]pkg.Record, error)
	Info(ctx context.Context) (Info, error)
}

// Unavailable is the BusinessData used when no database is configured
type Unavailable struct{}

func (Unavailable) Available() bool {
	return false
}

func (Unavailable) Query(ctx context.Context, name QueryName, params map[string]string) ([]pkg.Record, error) {
	return nil, ErrUnavailable
}

func (Unavailable) Info(ctx context.Context) (Info, error) {
	return Info{Connected: false, Tables: []string{}}, nil
}
