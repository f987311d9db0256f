/*
Package ports defines the driven ports (interfaces) of the hololoop orchestrator.

These interfaces decouple the application loop from the platform that hosts it, so the
orchestrator can run against a real mixed-reality runtime, a simulator, or test doubles.

# Key Interfaces

  - Space / Locator: The holographic space (camera attach/detach) and its tracking source.
  - Device / DeviceNotify: The rendering backend and its device-loss notifications.
  - ContentRenderer: The world-locked content drawn every frame.
  - Recognizer / AudioEngine: Continuous speech recognition and audio cues.
  - StateStore: Opaque blob persistence for the session state.
  - DistributedLocker: Cross-process locking for processes sharing one StateStore.
*/
package ports
