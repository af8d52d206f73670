package review

import (
	"testing"

	"github.com/Denner-Esteves/painel-approve/internal/domain/enums"
)

func TestAggregateStatus(t *testing.T) {
	approved := enums.DecisionApproved
	rejected := enums.DecisionRejected
	pending := enums.DecisionPending

	tests := []struct {
		name      string
		decisions []enums.Decision
		want      enums.TaskStatus
	}{
		{"no items", nil, enums.TaskStatusAwaitingApproval},
		{"single pending", []enums.Decision{pending}, enums.TaskStatusAwaitingApproval},
		{"single approved", []enums.Decision{approved}, enums.TaskStatusApproved},
		{"single rejected", []enums.Decision{rejected}, enums.TaskStatusRejected},
		{"all approved", []enums.Decision{approved, approved, approved}, enums.TaskStatusApproved},
		{"approved with pending", []enums.Decision{approved, pending, approved}, enums.TaskStatusAwaitingApproval},
		{"rejection beats pending", []enums.Decision{pending, rejected, pending}, enums.TaskStatusRejected},
		{"rejection beats approvals", []enums.Decision{approved, approved, rejected}, enums.TaskStatusRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AggregateStatus(tt.decisions); got != tt.want {
				t.Fatalf("AggregateStatus(%v) = %s, want %s", tt.decisions, got, tt.want)
			}
		})
	}
}

func TestAggregateStatusRejectionDominatesAtScale(t *testing.T) {
	decisions := make([]enums.Decision, 0, 101)
	for i := 0; i < 100; i++ {
		decisions = append(decisions, enums.DecisionApproved)
	}
	decisions = append(decisions, enums.DecisionRejected)

	if got := AggregateStatus(decisions); got != enums.TaskStatusRejected {
		t.Fatalf("100 approvals and one rejection aggregated to %s", got)
	}
}
