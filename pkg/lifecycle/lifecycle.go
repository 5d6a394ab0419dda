package lifecycle

import "ftth-viability-be/internal/pkg/apperrors"

// Status is the lifecycle state of a viability request.
type Status string

const (
	StatusPending     Status = "pending"
	StatusInReview    Status = "in_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
	StatusRescheduled Status = "rescheduled"
	StatusArchived    Status = "archived"
)

// Event is an action an auditor (or the reporting workflow) takes on a
// request.
type Event string

const (
	EventClaim      Event = "claim"
	EventApprove    Event = "approve"
	EventReject     Event = "reject"
	EventReschedule Event = "reschedule"
	EventArchive    Event = "archive"
)

// transitions is the authoritative table. A reschedule is a deferral, not a
// resolution: it re-queues the request as pending. Archived is terminal.
var transitions = map[Event]map[Status]Status{
	EventClaim: {
		StatusPending: StatusInReview,
	},
	EventApprove: {
		StatusInReview: StatusApproved,
	},
	EventReject: {
		StatusInReview: StatusRejected,
	},
	EventReschedule: {
		StatusInReview: StatusPending,
	},
	EventArchive: {
		StatusApproved: StatusArchived,
		StatusRejected: StatusArchived,
	},
}

var allStatuses = map[Status]struct{}{
	StatusPending:     {},
	StatusInReview:    {},
	StatusApproved:    {},
	StatusRejected:    {},
	StatusRescheduled: {},
	StatusArchived:    {},
}

// Valid reports whether s is one of the defined statuses.
func Valid(s Status) bool {
	_, ok := allStatuses[s]
	return ok
}

// Terminal reports whether no further transitions are permitted from s.
func Terminal(s Status) bool {
	return s == StatusArchived
}

// Next returns the status that event leads to from the given status, or
// ErrInvalidTransition if the table has no such edge.
func Next(from Status, event Event) (Status, error) {
	to, ok := transitions[event][from]
	if !ok {
		return "", apperrors.ErrInvalidTransition.WithMessage("cannot %s a request in status %q", event, from)
	}
	return to, nil
}

// CanArchive reports whether a request in status s may be archived.
func CanArchive(s Status) bool {
	_, ok := transitions[EventArchive][s]
	return ok
}
