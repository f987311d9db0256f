/*
Package session serializes access to persisted session state.

Manager wraps a ports.StateStore so that writes and deletes of one key never
interleave, within a process through reference-counted per-key locks, and
across processes sharing a store through an optional ports.DistributedLocker.
*/
package session
