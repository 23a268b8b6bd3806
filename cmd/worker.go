package cmd

import (
	"os"

	"github.com/itsmostafa/jseval/internal/worker"
	"github.com/spf13/cobra"
)

// The controller spawns this binary with the "worker" argument and the
// message channel on fds 3 (requests) and 4 (replies). Standard streams
// stay free for the evaluated program's own output.
var workerCmd = &cobra.Command{
	Use:    "worker",
	Hidden: true,
	Short:  "Run the evaluation worker process",
	RunE: func(cmd *cobra.Command, args []string) error {
		return worker.Run(worker.Config{
			Requests: os.NewFile(3, "requests"),
			Replies:  os.NewFile(4, "replies"),
			Stdout:   os.Stdout,
			Stderr:   os.Stderr,
		})
	},
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
