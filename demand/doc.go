// Package demand generates the synthetic population and click stream that
// drive the crowd when no live sessions are connected.
//
// A Population is a bounded random walk used as pool capacity. Clicks
// aggregates interaction counts per target and turns them into desired
// counts. Generator combines both and can be stepped manually with Tick or
// driven by a ticker with Run.
package demand
