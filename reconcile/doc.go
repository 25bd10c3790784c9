// Package reconcile keeps an agent pool in step with demand.
//
// Reconcile is a pure state-in/state-out function: given the previous pool
// and the current inputs (targets, capacity, sessions, mode) it returns a new
// pool without touching the old one. Each pass runs three stages:
//
//  1. Resize: the mode's spawn/retire policy grows or shrinks the pool
//  2. ClearOrphans: assignments to missing or hidden targets are dropped
//  3. Assign: the mode's resolver matches agents to targets
//
// Agents already correctly placed keep their identity and assignment across
// passes. Degraded input never produces an error: the worst outcome is a pool
// of wandering agents.
package reconcile
