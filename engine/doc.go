// Package engine owns the agent pool and drives it through time.
//
// The Engine is the mode controller of the crowd. It holds the current
// inputs (targets, capacity, sessions, mode) and the current pool. Whenever
// a setter changes an input the engine runs one reconciliation pass
// synchronously:
//
//  1. spawn or retire agents toward the mode's population signal
//  2. clear assignments that name missing or hidden targets
//  3. resolve assignments (aggregate demand or per-session focus)
//
// Independently of reconciliation, Step is called once per rendered frame
// and runs steering and locomotion over every agent. Snapshot returns the
// renderer-facing frame of each agent.
//
// # Concurrency Model
//
// The engine is meant to be driven from one goroutine, the frame loop.
// Public methods are guarded by a mutex so a second goroutine may read
// snapshots. With Config.FrameWorkers above one, Step splits the pool into
// disjoint chunks and steps them on a bounded errgroup; each agent's
// randomness is private, so the result equals the sequential pass.
//
// # Callbacks
//
// Callbacks registered for CallbackAfterReconcile and CallbackAfterStep run
// synchronously after the matching operation. A callback error is logged
// and never undoes the operation.
//
// # Usage
//
//	reg := registry.NewInMemoryRegistry()
//	eng := engine.New(func(o *engine.Options) {
//	    o.Registry = reg
//	    o.Logger = logger
//	})
//	eng.SetTargets(targets)
//	eng.SetCapacity(80)
//
//	for frame := range frames {
//	    eng.Step(frame)
//	    render(eng.Snapshot())
//	}
package engine
