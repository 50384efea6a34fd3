package services

import (
	"errors"
	"time"
)

// Status is a quote's lifecycle state.
type Status string

const (
	StatusDraft               Status = "draft"
	StatusPendingClientReview Status = "pending_client_review"
	StatusClientEdited        Status = "client_edited"
	StatusAccepted            Status = "accepted"
	StatusRejected            Status = "rejected"

	// legacyStatusApproved appeared in older records as a synonym for
	// accepted. Reads normalize it; a migration rewrites stored values.
	legacyStatusApproved = "approved"
)

// Role identifies which side of the negotiation an actor is on.
type Role string

const (
	RoleContractor Role = "contractor"
	RoleClient     Role = "client"
)

// Lifecycle errors, distinguishable with errors.Is at the handler boundary.
var (
	ErrIllegalTransition = errors.New("illegal quote status transition")
	ErrWrongRole         = errors.New("actor role may not perform this transition")
	ErrTerminalStatus    = errors.New("quote is in a terminal status")
	ErrQuoteExpired      = errors.New("quote has expired")
)

// NormalizeStatus maps a stored status string onto the canonical set.
// The legacy "approved" value reads as accepted.
func NormalizeStatus(s string) Status {
	if s == legacyStatusApproved {
		return StatusAccepted
	}
	return Status(s)
}

// ValidStatus reports whether s is a canonical status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusDraft, StatusPendingClientReview, StatusClientEdited,
		StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// transitionRule names who may move a quote between two statuses.
type transitionRule struct {
	from Status
	to   Status
	role Role
}

// transitions is the complete legal transition table. Anything absent
// is illegal regardless of role.
var transitions = []transitionRule{
	{StatusDraft, StatusPendingClientReview, RoleContractor},
	{StatusPendingClientReview, StatusClientEdited, RoleClient},
	{StatusPendingClientReview, StatusAccepted, RoleClient},
	{StatusPendingClientReview, StatusRejected, RoleClient},
	{StatusClientEdited, StatusPendingClientReview, RoleContractor},
	{StatusClientEdited, StatusAccepted, RoleContractor},
	{StatusClientEdited, StatusRejected, RoleContractor},
}

// CanTransition checks the transition table alone, ignoring expiry.
// A terminal from-status yields ErrTerminalStatus, a known edge with the
// wrong actor yields ErrWrongRole, anything else ErrIllegalTransition.
func CanTransition(from, to Status, role Role) error {
	if from.Terminal() {
		return ErrTerminalStatus
	}

	edgeExists := false
	for _, rule := range transitions {
		if rule.from == from && rule.to == to {
			edgeExists = true
			if rule.role == role {
				return nil
			}
		}
	}
	if edgeExists {
		return ErrWrongRole
	}
	return ErrIllegalTransition
}

// Expired reports whether a quote's expiry timestamp has passed.
// A zero expiresAt means the quote never expires.
func Expired(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.After(expiresAt)
}

// Transition validates and applies a status transition at the lifecycle
// boundary. On an expired quote only rejection remains legal; terminal
// statuses accept a same-status no-op and refuse everything else. The
// returned status equals `to` on success; callers must persist it only
// after any accompanying writes succeed, so a failed save leaves the
// stored status untouched.
func Transition(from, to Status, role Role, expiresAt, now time.Time) (Status, error) {
	if from.Terminal() {
		if from == to {
			return from, nil
		}
		return from, ErrTerminalStatus
	}

	if err := CanTransition(from, to, role); err != nil {
		return from, err
	}

	if Expired(expiresAt, now) && to != StatusRejected {
		return from, ErrQuoteExpired
	}

	return to, nil
}

// Editable reports whether an actor with the given role may mutate a
// quote's line items in the given status. Contractors edit their own
// drafts and review client edits; clients edit only while a quote sits
// with them for review.
func Editable(s Status, role Role) bool {
	switch role {
	case RoleContractor:
		return s == StatusDraft || s == StatusClientEdited
	case RoleClient:
		return s == StatusPendingClientReview
	}
	return false
}
