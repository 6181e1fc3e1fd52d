package nodes

import (
	"context"
	"fmt"
	"strings"
	"yara_assistant/internal/core"
	"yara_assistant/internal/services"
	"yara_assistant/pkg"
	"yara_assistant/src/logger"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/tool"
)

// DatabaseNode answers data intents from the backing store through the business tools
type DatabaseNode struct {
	data  services.BusinessData
	tools map[pkg.Intent]tool.InvokableTool
}

// NewDatabaseNode creates a database node over data
func NewDatabaseNode(data services.BusinessData) (*DatabaseNode, error) {
	if data == nil {
		data = services.Unavailable{}
	}
	tools, err := BusinessTools(data)
	if err != nil {
		return nil, err
	}
	return &DatabaseNode{data: data, tools: tools}, nil
}

// Execute queries the store when it is connected and the intent asks for data.
// Query failures and empty results fall through to the next node.
func (d *DatabaseNode) Execute(ctx context.Context, turn *core.Turn) (core.NodeOutput, error) {
	if !d.data.Available() || !turn.Intent.Label.IsDatabase() {
		return core.NodeOutput{}, nil
	}

	t, ok := d.tools[turn.Intent.Label]
	if !ok {
		return core.NodeOutput{}, nil
	}

	args := QueryArgs{}
	if turn.Intent.Label == pkg.IntentRevenueQuery {
		args.Period = DerivePeriod(turn.Utterance)
	}

	argsJSON, err := sonic.MarshalString(args)
	if err != nil {
		return core.NodeOutput{}, fmt.Errorf("failed to encode tool arguments: %w", err)
	}

	turn.DatabaseUsed = true
	out, err := t.InvokableRun(ctx, argsJSON)
	if err != nil {
		logger.Warn().Err(err).Str("intent", string(turn.Intent.Label)).Msg("⚠️ Database query failed")
		return core.NodeOutput{}, err
	}

	var result QueryResult
	if err := sonic.UnmarshalString(out, &result); err != nil {
		return core.NodeOutput{}, fmt.Errorf("failed to decode tool result: %w", err)
	}
	if !result.Found {
		logger.Debug().Str("intent", string(turn.Intent.Label)).Msg("📭 No data found")
		return core.NodeOutput{Data: map[string]any{"rows": 0}}, nil
	}

	logger.Info().Str("intent", string(turn.Intent.Label)).Int("rows", result.Rows).Msg("✅ Answered from database")
	output := turn.Respond(result.Response, pkg.SourceDatabase)
	output.Data["rows"] = result.Rows
	return output, nil
}

func (d *DatabaseNode) GetName() string {
	return "database"
}

func (d *DatabaseNode) GetType() core.NodeType {
	return core.NodeTypeDatabase
}

// DerivePeriod maps revenue phrasing to a store period, last quarter by default
func DerivePeriod(utterance string) string {
	lower := strings.ToLower(utterance)
	switch {
	case strings.Contains(lower, "quarter"):
		return services.PeriodLastQuarter
	case strings.Contains(lower, "year"):
		return services.PeriodLastYear
	case strings.Contains(lower, "month"):
		return services.PeriodCurrentMonth
	}
	return services.PeriodLastQuarter
}
