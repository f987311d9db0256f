/*
Package domain contains the core domain models of the hololoop application loop.

It defines the entities shared by the frame loop, the asynchronous device notifications
and the persistence layer. This package is kept pure and free of external dependencies
like I/O, rendering or speech engines, following Hexagonal Architecture principles.

# Key Entities

  - SessionState: The serializable application state (reposition flag, content placement).
  - CameraResources: The rendering resources allocated for one attached display surface.
  - FrameDescriptor: What Update produced for this tick (per-camera poses and timing).
  - Locatability: The quality of positional tracking at a given moment.
  - SpeechResult / Command: Recognized phrases and the commands they map to.
*/
package domain
