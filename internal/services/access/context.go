package access

import "context"

type operatorContextKey string

const operatorKey operatorContextKey = "operator_identity"

// Operator is the agency-side identity forwarded by the upstream identity
// proxy. Operators are never created or authenticated here.
type Operator struct {
	ID   string
	Name string
}

func WithOperator(ctx context.Context, operator Operator) context.Context {
	return context.WithValue(ctx, operatorKey, operator)
}

func OperatorFromContext(ctx context.Context) (Operator, bool) {
	operator, ok := ctx.Value(operatorKey).(Operator)
	return operator, ok
}
