/*
Package hololoop is the top-level orchestrator of a holographic (mixed-reality) application loop.

It ties asynchronous device notifications (camera attach and detach, tracking quality
changes, speech recognition results, graphics device loss) to a synchronous per-frame
Update/Render cycle and keeps them consistent under concurrent delivery.

# Concept

The host owns the display loop and the devices. The App owns the session: which cameras
have rendering resources, where the content sits, which voice commands are listening.
Everything outside the core is reached through the interfaces in pkg/ports, so the same
App runs against real hardware bindings or the simulated host in pkg/adapters/sim.

# Key Features

  - Event inbox: notifications are queued and applied at the start of Update and Render,
    so shared state is never mutated mid-frame.
  - Skip-if-absent rendering: a camera detached between Update and Render is skipped, and a
    frame with nothing drawn is never presented.
  - Device loss recovery: resources are keyed by camera id and recreated after restoration.
  - State-driven grammar: the voice command set is rebuilt only when the session state
    changes which commands make sense.
  - Tolerant persistence: absent or corrupt saved state falls back to defaults.

# Usage

	host := sim.NewHost(domain.LocatabilityPositionalTrackingActive)
	app, err := hololoop.New(host.Device, host.Recognizer, hololoop.WithAudio(host.Audio))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := app.SetSpace(ctx, host.Space); err != nil {
		log.Fatal(err)
	}
	host.Space.AddCamera("primary")

	for {
		frame := app.Update(ctx, time.Now())
		app.Render(ctx, frame)
	}

Hosts without a display loop of their own can use Runner instead.
*/
package hololoop
