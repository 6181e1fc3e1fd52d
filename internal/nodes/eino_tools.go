package nodes

import (
	"context"
	"fmt"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
)

// Tool names, one per data intent
const (
	ToolRevenue   = "revenue_lookup"
	ToolCustomers = "customer_lookup"
	ToolProducts  = "product_lookup"
)

// QueryArgs are the arguments every business tool accepts
type QueryArgs struct {
	Period     string `json:"period,omitempty" jsonschema:"description=Revenue period: last_quarter, last_year or current_month"`
	CustomerID string `json:"customer_id,omitempty" jsonschema:"description=Restrict to one customer"`
	ProductID  string `json:"product_id,omitempty" jsonschema:"description=Restrict to one product"`
}

// QueryResult is a tool's answer. Found is false when the store returned no rows.
type QueryResult struct {
	Found    bool   `json:"found"`
	Rows     int    `json:"rows"`
	Response string `json:"response,omitempty"`
}

func (a QueryArgs) params() map[string]string {
	params := make(map[string]string)
	if a.Period != "" {
		params[services.ParamPeriod] = a.Period
	}
	if a.CustomerID != "" {
		params[services.ParamCustomerID] = a.CustomerID
	}
	if a.ProductID != "" {
		params[services.ParamProductID] = a.ProductID
	}
	return params
}

// RevenueTool answers revenue questions for a period
func RevenueTool(data services.BusinessData) (tool.InvokableTool, error) {
	return utils.InferTool(ToolRevenue, "Total revenue, transaction count and average transaction for a period",
		func(ctx context.Context, args QueryArgs) (QueryResult, error) {
			if args.Period == "" {
				args.Period = services.PeriodLastQuarter
			}
			logger.Debug().Str("period", args.Period).Msg("💰 Looking up revenue")

			records, err := data.Query(ctx, services.QueryRevenue, args.params())
			if err != nil {
				return QueryResult{}, err
			}
			if len(records) == 0 {
				return QueryResult{}, nil
			}
			return QueryResult{Found: true, Rows: len(records), Response: FormatRevenue(records[0], args.Period)}, nil
		})
}

// CustomerTool answers questions about the customer base
func CustomerTool(data services.BusinessData) (tool.InvokableTool, error) {
	return utils.InferTool(ToolCustomers, "Count customers in the database",
		func(ctx context.Context, args QueryArgs) (QueryResult, error) {
			logger.Debug().Msg("👥 Looking up customers")
			return lookup(ctx, data, services.QueryCustomer, args, FormatCustomers)
		})
}

// ProductTool answers questions about the product catalog
func ProductTool(data services.BusinessData) (tool.InvokableTool, error) {
	return utils.InferTool(ToolProducts, "Count products and product categories in the database",
		func(ctx context.Context, args QueryArgs) (QueryResult, error) {
			logger.Debug().Msg("🛍️ Looking up products")
			return lookup(ctx, data, services.QueryProduct, args, FormatProducts)
		})
}

func lookup(ctx context.Context, data services.BusinessData, name services.QueryName, args QueryArgs, format func([]pkg.Record) string) (QueryResult, error) {
	records, err := data.Query(ctx, name, args.params())
	if err != nil {
		return QueryResult{}, err
	}
	if len(records) == 0 {
		return QueryResult{}, nil
	}
	return QueryResult{Found: true, Rows: len(records), Response: format(records)}, nil
}

// BusinessTools builds the data tools keyed by the intent each one answers
func BusinessTools(data services.BusinessData) (map[pkg.Intent]tool.InvokableTool, error) {
	builders := map[pkg.Intent]func(services.BusinessData) (tool.InvokableTool, error){
		pkg.IntentRevenueQuery:  RevenueTool,
		pkg.IntentCustomerQuery: CustomerTool,
		pkg.IntentProductQuery:  ProductTool,
	}

	tools := make(map[pkg.Intent]tool.InvokableTool, len(builders))
	for intent, build := range builders {
		t, err := build(data)
		if err != nil {
			return nil, fmt.Errorf("error creating %s tool: %w", intent, err)
		}
		tools[intent] = t
	}
	return tools, nil
}
