// Package core provides the foundational domain types shared by every
// crowdmesh package. It defines:
//
//   - Agents (simulated occupants with position, assignment and appearance)
//   - Targets (tracked features carrying a demand signal and visibility)
//   - Session records (the live-mode population source)
//   - TargetRegistry (id keyed lookup of live target positions)
//   - AgentFrame / Pose (the per-frame output sampled by a renderer)
//
// The package keeps algorithms out of scope. Reconciliation lives in
// reconcile, per-frame motion in steering and locomotion, orchestration in
// engine. Agents reference targets by id only, never by pointer, so targets
// can come and go independently of agent lifetime.
package core
