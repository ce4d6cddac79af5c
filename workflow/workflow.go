package workflow

// Workflow is a DAG of named steps. Step names must be unique within a
// workflow, and every name appearing in any step's Predecessors must name
// an existing step in the same workflow.
type Workflow struct {
	Name  string
	Steps []Step
}

// Validate checks the structural invariants the engine relies on: unique
// step names and predecessors that all resolve to existing steps. It does
// not detect cycles — cycle detection happens at run time as an
// InvariantViolation when a wave computes an empty ready set.
func (w Workflow) Validate() error {
	byName := make(map[string]struct{}, len(w.Steps))
	for _, s := range w.Steps {
		if _, exists := byName[s.Name]; exists {
			return &ValidationError{Message: "duplicate step name: " + s.Name}
		}
		byName[s.Name] = struct{}{}
	}

	for _, s := range w.Steps {
		for _, p := range s.Predecessors {
			if _, exists := byName[p]; !exists {
				return &ValidationError{Message: "step " + s.Name + " references unknown predecessor " + p}
			}
		}
	}

	return nil
}
