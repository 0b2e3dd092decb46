package roster

// Status is the derived configuration state of a trainee. It is computed on
// every read and never stored.
type Status string

const (
	StatusPendingSetup Status = "pending_setup"
	StatusActive       Status = "active"
)

// DeriveStatus is active only once both a workout and an assessment exist.
func DeriveStatus(workoutConfigured, assessmentConfigured bool) Status {
	if workoutConfigured && assessmentConfigured {
		return StatusActive
	}
	return StatusPendingSetup
}
