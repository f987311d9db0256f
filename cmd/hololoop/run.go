package main

import (
	"github.com/aretw0/hololoop/internal/cli"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the frame loop against the simulated host",
	Long: `Starts the app in the simulated holographic space and renders frames until
--frames is reached or the process is interrupted. State is restored on start and
saved on exit. Host events can be scripted per frame, e.g. --say "30:move molecule".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd)
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		opts.MetricsAddr, _ = cmd.Flags().GetString("metrics")
		return cli.Execute(opts)
	},
}

func runOptions(cmd *cobra.Command) cli.RunOptions {
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	frames, _ := cmd.Flags().GetUint64("frames")
	interval, _ := cmd.Flags().GetDuration("interval")
	quiet, _ := cmd.Flags().GetBool("quiet")

	opts := cli.RunOptions{
		ConfigPath: configPath,
		Debug:      debug,
		Frames:     frames,
		Interval:   interval,
		Quiet:      quiet,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}
	opts.Script.Say, _ = cmd.Flags().GetStringArray("say")
	opts.Script.Press, _ = cmd.Flags().GetStringArray("press")
	opts.Script.Lose, _ = cmd.Flags().GetStringArray("lose")
	opts.Script.Restore, _ = cmd.Flags().GetStringArray("restore")
	opts.Script.Track, _ = cmd.Flags().GetStringArray("track")
	opts.Script.Degrade, _ = cmd.Flags().GetStringArray("degrade")
	opts.Script.AddCamera, _ = cmd.Flags().GetStringArray("add-camera")
	opts.Script.RemoveCamera, _ = cmd.Flags().GetStringArray("remove-camera")
	return opts
}

func addLoopFlags(cmd *cobra.Command) {
	cmd.Flags().Uint64("frames", 0, "Stop after this many frames (0 runs until interrupted)")
	cmd.Flags().Duration("interval", 0, "Frame interval (default from frame_rate)")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress banner and summaries")

	cmd.Flags().StringArray("say", nil, `Speak a phrase at a frame ("30:move molecule[@confidence]")`)
	cmd.Flags().StringArray("press", nil, "Tap at a frame")
	cmd.Flags().StringArray("lose", nil, "Lose the graphics device at a frame")
	cmd.Flags().StringArray("restore", nil, "Restore the graphics device at a frame")
	cmd.Flags().StringArray("track", nil, `Change tracking at a frame ("40:degraded")`)
	cmd.Flags().StringArray("degrade", nil, `Report degraded audio at a frame ("50:too_noisy")`)
	cmd.Flags().StringArray("add-camera", nil, `Attach a camera at a frame ("60:secondary")`)
	cmd.Flags().StringArray("remove-camera", nil, `Detach a camera at a frame ("70:primary")`)
}

func init() {
	rootCmd.AddCommand(runCmd)

	addLoopFlags(runCmd)
	runCmd.Flags().Bool("fresh", false, "Discard saved state before starting")
	runCmd.Flags().String("metrics", "", "Expose /metrics and /state on this address while running")

	// 'run' is the default when no command is provided.
	rootCmd.RunE = runCmd.RunE
	addLoopFlags(rootCmd)
	rootCmd.Flags().Bool("fresh", false, "Discard saved state before starting")
	rootCmd.Flags().String("metrics", "", "Expose /metrics and /state on this address while running")
}
