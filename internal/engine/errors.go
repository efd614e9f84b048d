package engine

import "errors"

// Domain errors surfaced to callers as explicit rejections
var (
	// ErrSubjectNotFound means the subject id is unknown
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrIncidentNotFound means the incident id is unknown
	ErrIncidentNotFound = errors.New("incident not found")
	// ErrInvalidTransition means the incident status cannot advance that way
	ErrInvalidTransition = errors.New("invalid incident transition")
	// ErrInvalidDispatchUnit means the unit type is not Police or Medical
	ErrInvalidDispatchUnit = errors.New("invalid dispatch unit")
	// ErrIdentitySealed means the disclosure gate is closed for the incident
	ErrIdentitySealed = errors.New("identity sealed for non-SOS incident")
	// ErrSOSAlreadyActive means the subject already has an unresolved SOS
	ErrSOSAlreadyActive = errors.New("subject already has an active SOS incident")
	// ErrInvalidIncidentKind means the reporting boundary got a kind it does not accept
	ErrInvalidIncidentKind = errors.New("invalid incident kind")
)
