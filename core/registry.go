package core

import "github.com/go-gl/mathgl/mgl64"

// TargetRegistry resolves the live world position of a mounted target.
// Implementations must tolerate unknown ids by returning false; callers
// fall back to a previous position instead of failing.
type TargetRegistry interface {
	Position(targetID string) (mgl64.Vec3, bool)
}

// RegistryFunc adapts a plain function to TargetRegistry.
type RegistryFunc func(targetID string) (mgl64.Vec3, bool)

// Position implements TargetRegistry.
func (f RegistryFunc) Position(targetID string) (mgl64.Vec3, bool) { return f(targetID) }

// EmptyRegistry knows no targets.
type EmptyRegistry struct{}

// Position implements TargetRegistry.
func (EmptyRegistry) Position(string) (mgl64.Vec3, bool) { return mgl64.Vec3{}, false }
