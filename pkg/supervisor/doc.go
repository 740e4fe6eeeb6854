// Package supervisor provides pluggable error supervision policies deciding
// whether a session-level failure is survivable.
//
// A Policy is a partial mapping from failure causes to decisions: Resume
// drops the offending event and keeps the connection open, Stop terminates
// the session. Restart is accepted for compatibility but sessions treat it
// as Resume; true restart semantics are not supported.
//
// Policies are consulted synchronously on the session's control path and
// must not block.
//
// Basic usage:
//
//	policy := supervisor.Map(
//		supervisor.Rule{Match: ErrValidation, Decision: supervisor.Stop},
//		supervisor.Rule{Match: context.DeadlineExceeded, Decision: supervisor.Resume},
//	)
//
// Failures with no matching rule are treated as Stop by the session.
package supervisor
