// Package session tracks the external sessions that populate the crowd in
// live mode.
//
// A Tracker is the in-process membership view: the presence collaborator
// feeds it (Observe, Forget, Replace) from its own goroutine and the engine
// reads consistent copies with Snapshot. DecodeSnapshot turns an upstream
// presence payload into a core.SessionMap.
//
// Add additional presence backends in sub-packages; only the wiring layer
// needs to know which one feeds the tracker.
package session
