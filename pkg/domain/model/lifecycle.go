package model

// LifecycleState orders the lifecycle steps: Unverified < Verified < Prepared
type LifecycleState int

const (
	StateUnverified LifecycleState = iota
	StateVerified
	StatePrepared
)

func (s LifecycleState) String() string {
	switch s {
	case StateUnverified:
		return "unverified"
	case StateVerified:
		return "verified"
	case StatePrepared:
		return "prepared"
	default:
		return "unknown"
	}
}

// LifecycleStep names an operation of the plugin
type LifecycleStep string

const (
	StepVerifyConditions LifecycleStep = "verifyConditions"
	StepPrepare          LifecycleStep = "prepare"
	StepPublish          LifecycleStep = "publish"
	StepAddChannel       LifecycleStep = "addChannel"
)

// IsValid reports whether s is one of the four lifecycle steps
func (s LifecycleStep) IsValid() bool {
	switch s {
	case StepVerifyConditions, StepPrepare, StepPublish, StepAddChannel:
		return true
	default:
		return false
	}
}
