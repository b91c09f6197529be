package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrDatasetNotFound indicates the dataset could not be loaded.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrDataIntegrity marks a dataset whose records reference unknown stations
	// or repeat identifiers.
	ErrDataIntegrity = errors.New("dataset integrity violation")
	// ErrUnknownStation is returned when a tallied id has no station record.
	ErrUnknownStation = errors.New("unknown station")
	// ErrStationNotFound indicates a slug or id lookup miss.
	ErrStationNotFound = errors.New("station not found")
	// ErrOptionNotFound indicates a selected option index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrUnanswered is returned when advancing past an unanswered question.
	ErrUnanswered = errors.New("current question not answered")
	// ErrInvalidTransition is returned for an action not allowed in the current phase.
	ErrInvalidTransition = errors.New("invalid transition")
	// ErrInvalidContact is returned for an address without "@".
	ErrInvalidContact = errors.New("invalid contact address")
)
