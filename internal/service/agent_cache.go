package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/supportops/ticketsync/internal/domain"
)

const unknownAgent = "Unknown"

// AgentLookup fetches one helpdesk agent.
type AgentLookup interface {
	GetAgent(ctx context.Context, id int64) (*domain.Agent, error)
}

// AgentCache resolves agent ids to display names, calling the helpdesk at
// most once per id while lookups succeed. One cache serves one sync run.
type AgentCache struct {
	lookup AgentLookup
	logger *zap.Logger
	names  map[int64]string
}

// NewAgentCache creates an empty cache.
func NewAgentCache(lookup AgentLookup, logger *zap.Logger) *AgentCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AgentCache{lookup: lookup, logger: logger, names: make(map[int64]string)}
}

// Resolve returns the agent's name. A nil or zero id yields "" without a
// lookup. A failed lookup yields "Unknown" and is retried on the next call.
func (c *AgentCache) Resolve(ctx context.Context, id *int64) string {
	if id == nil || *id == 0 {
		return ""
	}
	if name, ok := c.names[*id]; ok {
		return name
	}
	agent, err := c.lookup.GetAgent(ctx, *id)
	if err != nil {
		c.logger.Warn("could not fetch agent name", zap.Int64("agent_id", *id), zap.Error(err))
		return unknownAgent
	}
	name := unknownAgent
	if agent != nil && strings.TrimSpace(agent.Contact.Name) != "" {
		name = agent.Contact.Name
	}
	c.names[*id] = name
	return name
}

// Len reports how many agents are cached.
func (c *AgentCache) Len() int {
	return len(c.names)
}
