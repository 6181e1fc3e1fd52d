package core

import (
	"context"
	"fmt"
	"time"
	"yara_assistant/src/logger"
)

// Processor runs nodes in registration order until one completes the turn
type Processor struct {
	nodes []Node
	index map[string]Node
}

// NewProcessor creates an empty processor
func NewProcessor() *Processor {
	return &Processor{
		index: make(map[string]Node),
	}
}

// Execute runs the chain over turn. Node errors are non-fatal: they are
// logged, recorded on the turn and the next node runs.
func (p *Processor) Execute(ctx context.Context, turn *Turn) {
	startTime := time.Now()

	for _, node := range p.nodes {
		name := node.GetName()
		turn.ExecutionPath = append(turn.ExecutionPath, name)
		logger.Debug().Str("node", name).Msg("📍 Executing node")

		output, err := node.Execute(ctx, turn)
		if err != nil {
			logger.Warn().Err(err).Str("node", name).Msg("⚠️ Node returned error")
			turn.Errors = append(turn.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		for key, value := range output.Data {
			turn.Metadata[fmt.Sprintf("%s_%s", name, key)] = value
		}

		if output.Complete {
			logger.Debug().Str("node", name).Msg("✅ Chain completed")
			break
		}
	}

	logger.Debug().
		Strs("path", turn.ExecutionPath).
		Float64("elapsed_ms", float64(time.Since(startTime).Nanoseconds())/1e6).
		Msg("🏁 Turn processed")
}

// AddNode appends a node to the chain
func (p *Processor) AddNode(node Node) error {
	if node == nil {
		return fmt.Errorf("node cannot be nil")
	}

	name := node.GetName()
	if name == "" {
		return fmt.Errorf("node name cannot be empty")
	}
	if _, exists := p.index[name]; exists {
		return fmt.Errorf("node already registered: %s", name)
	}

	p.nodes = append(p.nodes, node)
	p.index[name] = node
	logger.Debug().Str("node", name).Str("type", string(node.GetType())).Msg("➕ Added node")
	return nil
}

// GetNode retrieves a node by name
func (p *Processor) GetNode(name string) (Node, error) {
	node, exists := p.index[name]
	if !exists {
		return nil, fmt.Errorf("node not found: %s", name)
	}
	return node, nil
}

// Nodes returns the node names in execution order
func (p *Processor) Nodes() []string {
	names := make([]string, len(p.nodes))
	for i, node := range p.nodes {
		names[i] = node.GetName()
	}
	return names
}
