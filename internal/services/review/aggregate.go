package review

import (
	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
	"github.com/Denner-Esteves/painel-approve/internal/domain/model"
)

// AggregateStatus derives a task status from the full set of its item
// decisions. A single rejection dominates everything else; approval requires
// every item to be approved, and an empty set never approves.
func AggregateStatus(decisions []enums.Decision) enums.TaskStatus {
	if len(decisions) == 0 {
		return enums.TaskStatusAwaitingApproval
	}

	allApproved := true
	for _, decision := range decisions {
		switch decision {
		case enums.DecisionRejected:
			return enums.TaskStatusRejected
		case enums.DecisionApproved:
		default:
			allApproved = false
		}
	}

	if allApproved {
		return enums.TaskStatusApproved
	}

	return enums.TaskStatusAwaitingApproval
}

func decisionsOf(items []model.MediaItem) []enums.Decision {
	decisions := make([]enums.Decision, 0, len(items))
	for _, item := range items {
		decisions = append(decisions, item.Decision)
	}
	return decisions
}
