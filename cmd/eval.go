package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/itsmostafa/jseval/internal/session"
)

var evalCwd string

var evalCmd = &cobra.Command{
	Use:   "eval <code>",
	Short: "Evaluate JavaScript in a fresh worker and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.New(session.Config{Cwd: evalCwd})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		go io.Copy(out, sess.Stdout())
		go io.Copy(cmd.ErrOrStderr(), sess.Stderr())

		var evalErr error
		done := make(chan struct{})
		sess.Execute(strings.Join(args, " "), session.ExecuteCallbacks{
			OnSuccess: func(res *session.ExecuteResult) {
				fmt.Fprintln(out, res.Mime["text/plain"])
			},
			OnError: func(e *session.ErrorResult) {
				evalErr = fmt.Errorf("%s: %s", e.Ename, e.Evalue)
			},
			AfterRun: func() { close(done) },
		})
		<-done

		killed := make(chan struct{})
		sess.Kill(nil, func(int, string) { close(killed) })
		<-killed
		return evalErr
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalCwd, "cwd", "", "Worker process working directory")
	rootCmd.AddCommand(evalCmd)
}
