package nodes

import (
	"fmt"
	"strconv"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"

	"github.com/dustin/go-humanize"
)

var periodNames = map[string]string{
	services.PeriodLastQuarter:  "last quarter",
	services.PeriodLastYear:     "last year",
	services.PeriodCurrentMonth: "this month",
}

// FormatRevenue renders the aggregate revenue row for period
func FormatRevenue(record pkg.Record, period string) string {
	name, ok := periodNames[period]
	if !ok {
		name = periodNames[services.PeriodLastQuarter]
	}

	total := toFloat(record["total_revenue"])
	count := int64(toFloat(record["transaction_count"]))
	average := toFloat(record["average_transaction"])

	return fmt.Sprintf("Great question! Here's what I found in our %s data: 📊\n\n"+
		"• **Total Revenue**: $%s 💰\n"+
		"• **Number of Transactions**: %s 📈\n"+
		"• **Average Transaction**: $%.2f 📊\n\n"+
		"I hope this information is helpful! Is there anything specific about these numbers you'd like me to explain? 😊",
		name, humanize.FormatFloat("#,###.##", total), humanize.Comma(count), average)
}

// FormatCustomers renders the customer count
func FormatCustomers(records []pkg.Record) string {
	return fmt.Sprintf("Awesome! I'm happy to share that we currently have **%s wonderful customers** in our database! 🎉\n\n"+
		"That's quite a community we're building! Is there anything specific about our customers you'd like to know more about? 😊",
		humanize.Comma(int64(len(records))))
}

// FormatProducts renders the product count and number of distinct categories
func FormatProducts(records []pkg.Record) string {
	categories := make(map[string]struct{})
	for _, record := range records {
		category, _ := record["category"].(string)
		if category == "" {
			category = "Unknown"
		}
		categories[category] = struct{}{}
	}

	return fmt.Sprintf("Fantastic! I'm excited to tell you about our product offerings! 🛍️\n\n"+
		"We currently offer **%s amazing products** across **%d different categories**! 📦\n\n"+
		"That's quite a diverse selection! Would you like me to tell you more about any specific category or product? 😊",
		humanize.Comma(int64(len(records))), len(categories))
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(n), 64)
		return f
	}
	return 0
}
