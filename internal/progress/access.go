package progress

import (
	"sort"

	"github.com/dycedu/classroom-go/internal/models"
)

// State is the derived accessibility of one module for one user.
type State string

const (
	// StateLocked means the module may not be opened: it is unposted, or the
	// student has not completed every earlier module.
	StateLocked State = "locked"
	// StateActive means the module is open and not yet fully submitted.
	StateActive State = "active"
	// StateCompleted means the module is open and every question is answered.
	StateCompleted State = "completed"
)

// Resolve computes the accessibility state for every module. Modules are
// ordered by ModuleOrder (ties are undefined behavior upstream; the authoring
// workflow enforces uniqueness). Students are gated strictly sequentially:
// module N is reachable only when modules 1..N-1 are each posted and complete.
// Non-students bypass the sequential gate but still see unposted modules as
// locked.
//
// The result is advisory for UI gating only. The collaborator re-validates
// access on every request; this computation is never an authorization
// boundary.
func Resolve(modules []models.Module, complete map[uint]bool, isStudent bool) map[uint]State {
	ordered := SortModules(modules)
	states := make(map[uint]State, len(ordered))

	priorSatisfied := true
	for _, module := range ordered {
		moduleComplete := complete[module.ID]

		switch {
		case !module.IsPosted:
			states[module.ID] = StateLocked
		case isStudent && !priorSatisfied:
			states[module.ID] = StateLocked
		case moduleComplete:
			states[module.ID] = StateCompleted
		default:
			states[module.ID] = StateActive
		}

		priorSatisfied = priorSatisfied && module.IsPosted && moduleComplete
	}

	return states
}

// SortModules returns a copy of modules sorted by ModuleOrder ascending.
func SortModules(modules []models.Module) []models.Module {
	ordered := make([]models.Module, len(modules))
	copy(ordered, modules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ModuleOrder < ordered[j].ModuleOrder
	})
	return ordered
}
