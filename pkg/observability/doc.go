/*
Package observability provides tools for monitoring the hololoop frame loop.

It binds Prometheus collectors and structured logging to the orchestrator's
lifecycle hooks, so hosts get frame, camera, tracking, speech and device-loss
telemetry by passing the hooks to hololoop.WithLifecycleHooks.
*/
package observability
