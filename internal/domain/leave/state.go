package leave

import "github.com/leavedesk/leave-backend-go/internal/domain/user"

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDecline Decision = "decline"
)

func (d Decision) IsValid() bool {
	return d == DecisionApprove || d == DecisionDecline
}

// Transition computes the next request state for a decision taken by the
// given role. Employees cannot decide at all; HoD acts only while the
// request is pending; HR may decline a still-pending request but can only
// final-approve after the HoD stage, since HR approval is the one
// quota-deducting action.
func Transition(current RequestState, role user.Role, decision Decision) (RequestState, error) {
	if role != user.RoleHoD && role != user.RoleHR {
		return current, ErrUnauthorized
	}
	if current.Terminal() {
		return current, ErrInvalidTransition
	}

	switch current {
	case StatePending:
		switch {
		case role == user.RoleHoD && decision == DecisionApprove:
			return StateHoDApproved, nil
		case decision == DecisionDecline:
			return StateDeclined, nil
		default: // HR approve before the HoD has acted
			return current, ErrInvalidTransition
		}

	case StateHoDApproved:
		if role != user.RoleHR {
			return current, ErrInvalidTransition
		}
		if decision == DecisionApprove {
			return StateApproved, nil
		}
		return StateDeclined, nil
	}

	return current, ErrInvalidTransition
}

// AuditAction returns the audit label recorded for a transition into next.
func AuditAction(next RequestState) string {
	switch next {
	case StateHoDApproved:
		return ActionHoDApproved
	case StateApproved:
		return ActionApproved
	case StateDeclined:
		return ActionDeclined
	}
	return ActionApplied
}
