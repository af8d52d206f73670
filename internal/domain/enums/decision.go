package enums

import "strings"

type Decision string

const (
	DecisionPending  Decision = "pending"
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

func ParseDecision(raw string) (Decision, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return DecisionPending, true
	case "approved":
		return DecisionApproved, true
	case "rejected":
		return DecisionRejected, true
	}
	return "", false
}
