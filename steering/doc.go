// Package steering moves agents toward their objectives once per frame.
//
// An agent's behavior is derived rather than stored: unassigned agents
// wander between anchors, assigned agents orbit their target's live
// position. Speeds and interpolation rates are expressed per reference frame
// (1/60 s by default) and scaled by the actual frame delta, so motion is
// independent of the render rate.
package steering
