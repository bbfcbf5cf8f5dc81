package service

import (
	"context"
	"testing"

	"research-agent/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAgent struct {
	id    string
	types []entity.TaskType
}

func (s *stubAgent) ID() string                      { return s.id }
func (s *stubAgent) Capabilities() []entity.TaskType { return s.types }

func (s *stubAgent) CanHandle(t entity.TaskType) bool {
	for _, c := range s.types {
		if c == t {
			return true
		}
	}
	return false
}

func (s *stubAgent) Execute(_ context.Context, task entity.Task) entity.TaskResult {
	return entity.TaskResult{TaskID: task.ID, Findings: s.id, Status: entity.TaskStatusCompleted}
}

func TestRegistry_ResolveUsesDeclaredCapabilities(t *testing.T) {
	r := NewCapabilityRegistry()
	web := &stubAgent{id: "web-1", types: []entity.TaskType{entity.TaskTypeWebSearch, entity.TaskTypeCurrentEvents}}
	r.Register(web)

	got := r.Resolve(entity.TaskTypeCurrentEvents)
	require.Len(t, got, 1)
	assert.Equal(t, "web-1", got[0].ID())

	assert.Empty(t, r.Resolve(entity.TaskTypeFactChecking))
}

func TestRegistry_ResolvePreservesRegistrationOrder(t *testing.T) {
	r := NewCapabilityRegistry()
	a := &stubAgent{id: "a", types: []entity.TaskType{entity.TaskTypeWebSearch}}
	b := &stubAgent{id: "b", types: []entity.TaskType{entity.TaskTypeWebSearch}}
	r.Register(a)
	r.Register(b)
	r.Register(a)

	got := r.Resolve(entity.TaskTypeWebSearch)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID())
	assert.Equal(t, "b", got[1].ID())
	assert.Len(t, r.Agents(), 2)
}

func TestRegistry_ExplicitTypesMustBeHandled(t *testing.T) {
	r := NewCapabilityRegistry()
	a := &stubAgent{id: "a", types: []entity.TaskType{entity.TaskTypeWebSearch}}
	r.Register(a, entity.TaskTypeWebSearch, entity.TaskTypeFactChecking)

	assert.Len(t, r.Resolve(entity.TaskTypeWebSearch), 1)
	assert.Empty(t, r.Resolve(entity.TaskTypeFactChecking), "agent that cannot handle a type is not resolved for it")
}

func TestRegistry_IgnoresNilAgent(t *testing.T) {
	r := NewCapabilityRegistry()
	r.Register(nil, entity.TaskTypeWebSearch)
	assert.Empty(t, r.Agents())
}
