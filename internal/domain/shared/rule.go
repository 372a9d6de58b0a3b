package shared

import "context"

// BusinessRule is a named business predicate with a human-readable
// failure message. Rules are independent and composable: new rules are
// added without modifying existing ones.
type BusinessRule interface {
	// Name identifies the rule; it doubles as the DomainError code
	Name() string
	// Message is the human-readable failure message
	Message() string
	// IsSatisfied evaluates the predicate. The error return is reserved
	// for infrastructure failures (e.g. a repository lookup failing);
	// a false result with nil error is a plain rule failure.
	IsSatisfied(ctx context.Context) (bool, error)
}

// RuleValidator evaluates an ordered sequence of business rules,
// short-circuiting on the first failure.
type RuleValidator struct{}

// NewRuleValidator creates a new RuleValidator
func NewRuleValidator() *RuleValidator {
	return &RuleValidator{}
}

// Validate evaluates the rules in order and returns a rule-violation
// DomainError for the first rule that fails, or nil if all rules pass.
// Infrastructure errors abort evaluation and are returned unchanged.
func (v *RuleValidator) Validate(ctx context.Context, rules ...BusinessRule) error {
	for _, rule := range rules {
		ok, err := rule.IsSatisfied(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return NewDomainError(rule.Name(), rule.Message())
		}
	}
	return nil
}

// funcRule adapts a plain function into a BusinessRule
type funcRule struct {
	name      string
	message   string
	predicate func(ctx context.Context) (bool, error)
}

func (r *funcRule) Name() string    { return r.name }
func (r *funcRule) Message() string { return r.message }

func (r *funcRule) IsSatisfied(ctx context.Context) (bool, error) {
	return r.predicate(ctx)
}

// NewRule creates a BusinessRule from a name, message, and predicate
// function. Useful for simple value checks that need no collaborators.
func NewRule(name, message string, predicate func(ctx context.Context) (bool, error)) BusinessRule {
	return &funcRule{name: name, message: message, predicate: predicate}
}
