package engine

import "continuity-api/internal/model"

// Invalidate clears stored responses for every question whose
// conditional rule depends on the changed question, following
// dependency edges transitively: if clearing a dependent invalidates
// its own dependents, those are cleared too. The response map is
// mutated in place; the returned slice lists the cleared question IDs
// so callers can delete the persisted copies.
func (e *Engine) Invalidate(changedQuestionID string, responses model.ResponseSet) []string {
	var cleared []string
	seen := map[string]bool{changedQuestionID: true}
	queue := []string{changedQuestionID}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, dep := range e.dependents[id] {
			if seen[dep] {
				continue
			}
			seen[dep] = true
			if _, ok := responses[dep]; ok {
				delete(responses, dep)
				cleared = append(cleared, dep)
			}
			// Walk onward even when no response existed; a
			// grandchild may still hold one.
			queue = append(queue, dep)
		}
	}
	return cleared
}
