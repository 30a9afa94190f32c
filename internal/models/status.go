package models

// FetchStatus tags the outcome of a single upstream lookup so callers can
// tell "nothing there" apart from "could not ask".
type FetchStatus string

const (
	FetchOK     FetchStatus = "ok"
	FetchEmpty  FetchStatus = "empty"
	FetchFailed FetchStatus = "failed"
)
