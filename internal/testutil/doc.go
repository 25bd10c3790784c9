// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing targets, agents, spawners and registries.
// They are not intended for production usage.
package testutil
