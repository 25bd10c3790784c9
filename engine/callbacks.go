package engine

import (
	"fmt"

	"github.com/hupe1980/crowdmesh/reconcile"
	"github.com/hupe1980/crowdmesh/steering"
)

// CallbackType defines the lifecycle points where callbacks can be executed.
type CallbackType string

const (
	// CallbackAfterReconcile is triggered after every reconciliation pass.
	CallbackAfterReconcile CallbackType = "after_reconcile"

	// CallbackAfterStep is triggered after every frame pass.
	CallbackAfterStep CallbackType = "after_step"
)

// CallbackContext carries what a callback may inspect. Report is set for
// CallbackAfterReconcile, Frame and Stats for CallbackAfterStep.
type CallbackContext struct {
	CallbackType CallbackType
	Report       reconcile.Report
	Frame        steering.Frame
	Stats        FrameStats
	Metadata     map[string]any
}

// Callback defines the interface for engine lifecycle hooks.
//
// Callbacks run on the frame loop goroutine and must be fast. They may not
// call back into the engine.
type Callback interface {
	// Type returns the callback type this implementation handles.
	Type() CallbackType

	// Execute performs the callback logic with the provided context.
	Execute(callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback implementation.
//
// Example:
//
//	cb := NewFunctionCallback(CallbackAfterReconcile, func(c *CallbackContext) error {
//	    fmt.Println("pool size", c.Report.Size)
//	    return nil
//	})
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a new function-based callback.
func NewFunctionCallback(callbackType CallbackType, fn func(callbackCtx *CallbackContext) error) *FunctionCallback {
	return &FunctionCallback{callbackType: callbackType, fn: fn}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute calls the wrapped function with the provided context.
func (c *FunctionCallback) Execute(callbackCtx *CallbackContext) error {
	return c.fn(callbackCtx)
}

// CallbackManager keeps callbacks per type and runs them in registration
// order. It is not safe for concurrent registration.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{callbacks: make(map[CallbackType][]Callback)}
}

// RegisterCallback adds a callback for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks runs every callback of the given type. Execution stops at
// the first error, which is returned.
func (cm *CallbackManager) ExecuteCallbacks(callbackType CallbackType, callbackCtx *CallbackContext) error {
	callbackCtx.CallbackType = callbackType
	for _, callback := range cm.callbacks[callbackType] {
		if err := callback.Execute(callbackCtx); err != nil {
			return fmt.Errorf("%s callback: %w", callbackType, err)
		}
	}
	return nil
}

// LoggingCallback forwards a one-line summary of each lifecycle event to a
// logging function.
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a new logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{callbackType: callbackType, logger: logger}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType { return c.callbackType }

// Execute logs the event. A nil logger function silently succeeds.
func (c *LoggingCallback) Execute(callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}
	switch callbackCtx.CallbackType {
	case CallbackAfterReconcile:
		r := callbackCtx.Report
		c.logger(fmt.Sprintf("[%s] mode=%s size=%d assigned=%d spawned=%d retired=%d",
			callbackCtx.CallbackType, r.Mode, r.Size, r.Assigned, r.Spawned, r.Retired))
	default:
		c.logger(fmt.Sprintf("[%s] agents=%d moving=%d",
			callbackCtx.CallbackType, callbackCtx.Stats.Agents, callbackCtx.Stats.Moving))
	}
	return nil
}
