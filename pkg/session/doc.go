// Package session serializes access to conversation sessions. The Manager
// guarantees at-most-one in-flight update resolution per session key while
// distinct conversations proceed in parallel, optionally coordinating across
// replicas through a distributed locker.
package session
