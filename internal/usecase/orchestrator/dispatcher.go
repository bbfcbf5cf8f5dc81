package orchestrator

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"
	"sync"

	"research-agent/internal/application/port/input"
	"research-agent/internal/application/port/output"
	"research-agent/internal/domain/entity"
	"research-agent/internal/domain/errs"

	"golang.org/x/sync/semaphore"
)

var _ input.Dispatcher = (*Dispatcher)(nil)

// Dispatcher runs tasks on registered agents under a global concurrency ceiling.
type Dispatcher struct {
	registry    output.AgentRegistry
	logger      output.LoggerPort
	maxParallel int64
}

func NewDispatcher(registry output.AgentRegistry, logger output.LoggerPort, maxParallel int) *Dispatcher {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &Dispatcher{
		registry:    registry,
		logger:      logger.Named("dispatcher"),
		maxParallel: int64(maxParallel),
	}
}

// Dispatch executes every task and returns one result per task in input order. It never
// returns fewer results than tasks, whatever the agents do.
func (d *Dispatcher) Dispatch(ctx context.Context, tasks []entity.Task) []entity.TaskResult {
	results := make([]entity.TaskResult, len(tasks))
	if len(tasks) == 0 {
		return results
	}

	assigned := d.assign(tasks)
	sem := semaphore.NewWeighted(d.maxParallel)

	var wg sync.WaitGroup
	for _, i := range launchOrder(tasks) {
		task := tasks[i]
		agent := assigned[i]

		if agent == nil {
			d.logger.Warn("No agent for task", "taskId", task.ID, "taskType", task.Type)
			results[i] = entity.NewFailedResult(task, fmt.Sprintf("%v for task type %q", errs.ErrNoCapableAgent, task.Type))
			continue
		}

		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = entity.NewFailedResult(task, fmt.Sprintf("dispatch cancelled: %v", err))
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = d.run(ctx, agent, task)
		}()
	}
	wg.Wait()

	return results
}

func (d *Dispatcher) run(ctx context.Context, agent output.ResearchAgent, task entity.Task) (result entity.TaskResult) {
	defer func() {
		if p := recover(); p != nil {
			d.logger.Error("Agent panicked", "agent", agent.ID(), "taskId", task.ID, "panic", p, "stack", string(debug.Stack()))
			result = entity.NewFailedResult(task, fmt.Sprintf("agent %s panicked: %v", agent.ID(), p))
		}
	}()

	d.logger.Debug("Task started", "agent", agent.ID(), "taskId", task.ID, "taskType", task.Type)

	result = agent.Execute(ctx, task)
	result.TaskID = task.ID
	result.TaskDescription = task.Description
	result = result.Normalize()

	d.logger.Info("Task finished", "agent", agent.ID(), "taskId", task.ID, "status", result.Status, "confidence", result.Confidence)
	return result
}

// assign groups tasks by type in order of first appearance and spreads each group over the
// agents that can handle it, round-robin. Unassignable tasks get a nil agent.
func (d *Dispatcher) assign(tasks []entity.Task) []output.ResearchAgent {
	var types []entity.TaskType
	groups := make(map[entity.TaskType][]int)
	for i, t := range tasks {
		if _, ok := groups[t.Type]; !ok {
			types = append(types, t.Type)
		}
		groups[t.Type] = append(groups[t.Type], i)
	}

	assigned := make([]output.ResearchAgent, len(tasks))
	for _, taskType := range types {
		agents := d.registry.Resolve(taskType)
		if len(agents) == 0 {
			continue
		}
		for n, i := range groups[taskType] {
			assigned[i] = agents[n%len(agents)]
		}
	}
	return assigned
}

// launchOrder returns task indexes sorted by priority, keeping input order within a
// priority.
func launchOrder(tasks []entity.Task) []int {
	order := make([]int, len(tasks))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return tasks[order[a]].Priority.Rank() < tasks[order[b]].Priority.Rank()
	})
	return order
}
