package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a PluginError.
type ErrorKind string

const (
	KindLiveStateUnavailable ErrorKind = "LIVE_STATE_UNAVAILABLE"
	KindUnsupportedAircraft  ErrorKind = "UNSUPPORTED_AIRCRAFT"
	KindNotColdAndDark       ErrorKind = "NOT_COLD_AND_DARK"
	KindIO                   ErrorKind = "IO"
	KindMalformedData        ErrorKind = "MALFORMED_DATA"
)

// PluginError is a structured engine error. Two PluginErrors match under
// errors.Is when their kinds are equal, so the sentinels below can be used
// to test for a kind regardless of message or cause.
type PluginError struct {
	Kind    ErrorKind `json:"error"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *PluginError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *PluginError) Unwrap() error { return e.Err }

func (e *PluginError) Is(target error) bool {
	var t *PluginError
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is.
var (
	ErrLiveStateUnavailable = &PluginError{Kind: KindLiveStateUnavailable, Message: "live state unavailable"}
	ErrUnsupportedAircraft  = &PluginError{Kind: KindUnsupportedAircraft, Message: "aircraft not supported"}
	ErrNotColdAndDark       = &PluginError{Kind: KindNotColdAndDark, Message: "detected startup with engines running"}
	ErrIO                   = &PluginError{Kind: KindIO, Message: "i/o error"}
	ErrMalformedData        = &PluginError{Kind: KindMalformedData, Message: "malformed loadout data"}

	// ErrEmptyLoadout is returned when asked to persist a loadout without fuel tanks.
	ErrEmptyLoadout = errors.New("refusing to save empty loadout")
)

// Error constructors.
var (
	LiveStateUnavailable = func(dataref string, err error) *PluginError {
		return &PluginError{Kind: KindLiveStateUnavailable, Message: fmt.Sprintf("dataref %q unavailable", dataref), Err: err}
	}
	UnsupportedAircraft = func(name string) *PluginError {
		return &PluginError{Kind: KindUnsupportedAircraft, Message: fmt.Sprintf("aircraft %q not supported", name)}
	}
	NotColdAndDark = func() *PluginError {
		return &PluginError{Kind: KindNotColdAndDark, Message: "detected startup with engines running"}
	}
	IOError = func(path string, err error) *PluginError {
		return &PluginError{Kind: KindIO, Message: fmt.Sprintf("i/o on %s", path), Err: err}
	}
	MalformedData = func(path string, err error) *PluginError {
		return &PluginError{Kind: KindMalformedData, Message: fmt.Sprintf("could not parse loadout from %s", path), Err: err}
	}
)
