package supervisor

import "errors"

// Decision is the outcome of supervising a failure.
type Decision int

const (
	// Stop terminates the session.
	Stop Decision = iota
	// Resume discards the failure and keeps the session open.
	Resume
	// Restart is accepted but behaves as Resume; sessions log that restart
	// semantics are not supported.
	Restart
)

// String returns a human-readable decision name for log attributes.
func (d Decision) String() string {
	switch d {
	case Stop:
		return "stop"
	case Resume:
		return "resume"
	case Restart:
		return "restart"
	default:
		return "unknown"
	}
}

// Policy decides how a session reacts to a failure.
// Decide returns ok=false when the policy has no rule for the cause; the
// session then falls back to Stop. Implementations must not block.
type Policy interface {
	Decide(cause error) (Decision, bool)
}

// PolicyFunc adapts a plain function to the Policy interface.
type PolicyFunc func(cause error) (Decision, bool)

func (f PolicyFunc) Decide(cause error) (Decision, bool) {
	return f(cause)
}

// Rule maps failure causes matching a target error to a decision.
// Matching uses errors.Is, so wrapped causes match their sentinels.
type Rule struct {
	Match    error
	Decision Decision
}

// Map builds a policy from ordered rules; the first matching rule wins.
// Causes matching no rule yield ok=false.
func Map(rules ...Rule) Policy {
	return PolicyFunc(func(cause error) (Decision, bool) {
		for _, r := range rules {
			if r.Match != nil && errors.Is(cause, r.Match) {
				return r.Decision, true
			}
		}
		return Stop, false
	})
}

// StopAll returns the default policy: every failure maps to Stop.
func StopAll() Policy {
	return PolicyFunc(func(error) (Decision, bool) {
		return Stop, true
	})
}

// ResumeAll returns a policy mapping every failure to Resume. Intended for
// integrators that log failures in their own handler and never want a
// business-logic error to drop the connection.
func ResumeAll() Policy {
	return PolicyFunc(func(error) (Decision, bool) {
		return Resume, true
	})
}
