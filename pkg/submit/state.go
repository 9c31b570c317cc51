package submit

// State is a step of the submission state machine.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateInvalid
	StateValid
	StateBuilding
	StateDispatching
	StateCancelled
	StateApproved
	StateSending
	StateNetworkError
	StateResponded
	StateNavigating
)

var stateNames = map[State]string{
	StateIdle:         "idle",
	StateValidating:   "validating",
	StateInvalid:      "invalid",
	StateValid:        "valid",
	StateBuilding:     "building",
	StateDispatching:  "dispatching",
	StateCancelled:    "cancelled",
	StateApproved:     "approved",
	StateSending:      "sending",
	StateNetworkError: "network-error",
	StateResponded:    "responded",
	StateNavigating:   "navigating",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the attempt ends in s without reaching navigation.
func (s State) Terminal() bool {
	switch s {
	case StateInvalid, StateCancelled, StateNetworkError:
		return true
	default:
		return false
	}
}
