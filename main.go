package main

import (
	"log"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func make_sure_not_root() {
	if syscall.Geteuid() == 0 && os.Getenv("SHAPEMON_PERMIT_ROOT") != "live_dangerously" {
		log.Println("This program will not run as root.")
		os.Exit(20)
	}
}

func main() {
	var path_config string
	var p_render params_render

	cmd_root := &cobra.Command{
		Use:   "shapemon",
		Short: "Measure metrics and draw them as data-driven shape panels",
		Long: `shapemon runs shell commands periodically, stores their results
in SQLite and serves panels whose shapes are positioned and styled by
query results.`,
		SilenceUsage: true,
	}
	cmd_root.PersistentFlags().StringVarP(
		&path_config, FLAG_CONFIG_PATH, "c", DEFAULT_CONFIG_PATH, HELP_CONFIG_PATH)

	cmd_measure := &cobra.Command{
		Use:   "measure",
		Short: "measure metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			make_sure_not_root()
			return measure(path_config)
		},
	}
	cmd_serve := &cobra.Command{
		Use:   "serve",
		Short: "display panels via HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			make_sure_not_root()
			return serve(path_config)
		},
	}
	cmd_render := &cobra.Command{
		Use:   "render [panel]",
		Short: "draw one panel into a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			make_sure_not_root()
			p_render.panel = args[0]
			return render_panel(path_config, &p_render)
		},
	}
	cmd_render.Flags().StringVarP(&p_render.path_out, "output", "o", "panel.png", "Output file path")
	cmd_render.Flags().StringVar(&p_render.format, "format", "", "Output format: png or svg (default: from output suffix)")
	cmd_render.Flags().IntVar(&p_render.width, "width", 0, "Width in pixels (default: from panel)")
	cmd_render.Flags().IntVar(&p_render.height, "height", 0, "Height in pixels (default: from panel)")
	cmd_render.Flags().DurationVar(&p_render.timeout, "timeout", 30*time.Second, "Give up after this long")

	cmd_root.AddCommand(cmd_measure, cmd_serve, cmd_render)

	if err := cmd_root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
