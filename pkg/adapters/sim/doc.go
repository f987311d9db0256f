/*
Package sim provides an in-process simulation of a mixed-reality host.

It implements every driven port of the orchestrator (space, locator, device, recognizer,
audio) with deterministic, inspectable state, so the application loop can run headless
in the CLI and in tests. Event handlers are invoked synchronously on the goroutine that
triggers the event, after internal locks are released.
*/
package sim
