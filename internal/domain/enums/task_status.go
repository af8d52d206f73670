package enums

import "strings"

type TaskStatus string

const (
	TaskStatusInProduction     TaskStatus = "IN_PRODUCTION"
	TaskStatusAwaitingApproval TaskStatus = "AWAITING_APPROVAL"
	TaskStatusApproved         TaskStatus = "APPROVED"
	TaskStatusRejected         TaskStatus = "REJECTED"
)

// ParseTaskStatus normalizes both the current uppercase vocabulary and the
// legacy lowercase one into a single internal value. Unknown input maps to
// AWAITING_APPROVAL so that stale rows never block the review flow.
func ParseTaskStatus(raw string) TaskStatus {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(raw), " ", "_")) {
	case "IN_PRODUCTION":
		return TaskStatusInProduction
	case "APPROVED":
		return TaskStatusApproved
	case "REJECTED":
		return TaskStatusRejected
	case "AWAITING_APPROVAL", "PENDING", "":
		return TaskStatusAwaitingApproval
	default:
		return TaskStatusAwaitingApproval
	}
}

func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusApproved || s == TaskStatusRejected
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusInProduction, TaskStatusAwaitingApproval, TaskStatusApproved, TaskStatusRejected:
		return true
	}
	return false
}
