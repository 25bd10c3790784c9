// Package registry provides an in-memory core.TargetRegistry.
//
// The renderer registers a target when it mounts, updates its position while
// it moves, and unregisters it when it unmounts. Agents read positions every
// frame. A position lookup for an unmounted target returns the last position
// it was seen at, so agents walking toward a target that is briefly
// unmounted do not snap back.
package registry
