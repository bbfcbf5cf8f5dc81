package orchestrator

import "research-agent/internal/domain/entity"

// Summarize counts results by status, the distinct sources across them and the mean
// confidence of results that did not fail.
func Summarize(results []entity.TaskResult) entity.Summary {
	s := entity.Summary{Total: len(results)}

	sources := make(map[string]struct{})
	total := 0.0
	for _, r := range results {
		switch r.Status {
		case entity.TaskStatusCompleted:
			s.Completed++
		case entity.TaskStatusPartial:
			s.Partial++
		default:
			s.Failed++
			continue
		}
		total += r.Confidence
		for _, src := range r.Sources {
			sources[src] = struct{}{}
		}
	}

	s.DistinctSources = len(sources)
	if counted := s.Completed + s.Partial; counted > 0 {
		s.MeanConfidence = total / float64(counted)
	}
	return s
}
