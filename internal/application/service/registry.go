package service

import (
	"sync"

	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
)

var _ output.AgentRegistry = (*CapabilityRegistry)(nil)

// CapabilityRegistry maps task types to the agents able to execute them. Resolution order
// follows registration order.
type CapabilityRegistry struct {
	mu     sync.RWMutex
	byType map[entity.TaskType][]output.ResearchAgent
	agents []output.ResearchAgent
}

func NewCapabilityRegistry() *CapabilityRegistry {
	return &CapabilityRegistry{
		byType: make(map[entity.TaskType][]output.ResearchAgent),
	}
}

// Register adds agent for the given types, or for its declared capabilities when none are
// given. Registering the same agent twice for a type is a no-op.
func (r *CapabilityRegistry) Register(agent output.ResearchAgent, types ...entity.TaskType) {
	if agent == nil {
		return
	}
	if len(types) == 0 {
		types = agent.Capabilities()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if !containsAgent(r.agents, agent) {
		r.agents = append(r.agents, agent)
	}
	for _, t := range types {
		if containsAgent(r.byType[t], agent) {
			continue
		}
		r.byType[t] = append(r.byType[t], agent)
	}
}

func (r *CapabilityRegistry) Resolve(taskType entity.TaskType) []output.ResearchAgent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agents := r.byType[taskType]
	result := make([]output.ResearchAgent, 0, len(agents))
	for _, a := range agents {
		if a.CanHandle(taskType) {
			result = append(result, a)
		}
	}
	return result
}

func (r *CapabilityRegistry) Agents() []output.ResearchAgent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]output.ResearchAgent, len(r.agents))
	copy(result, r.agents)
	return result
}

func containsAgent(list []output.ResearchAgent, agent output.ResearchAgent) bool {
	for _, a := range list {
		if a.ID() == agent.ID() {
			return true
		}
	}
	return false
}
