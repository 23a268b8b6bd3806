package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/itsmostafa/jseval/internal/session"
)

var replCwd string

var (
	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("81"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("81")).
			Padding(0, 1)
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive session against a JavaScript worker",
	Long: `Start a worker process and evaluate lines interactively.

Commands:
  .inspect <expr>    describe the value of an expression
  .complete <text>   list completions for a partial expression
  .restart           replace the worker with a fresh one
  .exit              quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := session.New(session.Config{Cwd: replCwd})
		if err != nil {
			return err
		}
		defer sess.Kill(nil, nil)

		out := cmd.OutOrStdout()
		// Program output (console.log etc.) interleaves with results.
		pumpStreams(sess, out, cmd.ErrOrStderr())

		fmt.Fprintln(out, bannerStyle.Render("jseval repl — .exit to quit"))
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, promptStyle.Render("> "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			switch {
			case line == "":
				continue
			case line == ".exit" || line == ".quit":
				return nil
			case line == ".restart":
				replRestart(sess, out)
				pumpStreams(sess, out, cmd.ErrOrStderr())
			case strings.HasPrefix(line, ".inspect "):
				replInspect(sess, out, strings.TrimPrefix(line, ".inspect "))
			case strings.HasPrefix(line, ".complete "):
				replComplete(sess, out, strings.TrimPrefix(line, ".complete "))
			default:
				replExecute(sess, out, line)
			}
		}
		return scanner.Err()
	},
}

// pumpStreams forwards the worker's passthrough stdout/stderr. The
// copies end at worker exit, so a restart needs a fresh pair.
func pumpStreams(sess *session.Session, out, errOut io.Writer) {
	if stdout := sess.Stdout(); stdout != nil {
		go io.Copy(out, stdout)
	}
	if stderr := sess.Stderr(); stderr != nil {
		go io.Copy(errOut, stderr)
	}
}

func replExecute(sess *session.Session, out io.Writer, code string) {
	done := make(chan struct{})
	sess.Execute(code, session.ExecuteCallbacks{
		OnSuccess: func(res *session.ExecuteResult) {
			fmt.Fprintln(out, resultStyle.Render(res.Mime["text/plain"]))
		},
		OnError:  func(e *session.ErrorResult) { printError(out, e) },
		AfterRun: func() { close(done) },
	})
	<-done
}

func replInspect(sess *session.Session, out io.Writer, code string) {
	done := make(chan struct{})
	sess.Inspect(code, len(code), session.InspectCallbacks{
		OnSuccess: func(res *session.InspectionResult) {
			fmt.Fprintf(out, "%s %s\n", resultStyle.Render(res.String), dimStyle.Render("("+res.Type+")"))
			if len(res.ConstructorList) > 0 {
				fmt.Fprintln(out, dimStyle.Render("constructors: "+strings.Join(res.ConstructorList, " < ")))
			}
			if res.Doc != nil {
				fmt.Fprintln(out, res.Doc.Description)
				if res.Doc.Usage != "" {
					fmt.Fprintln(out, dimStyle.Render("usage: "+res.Doc.Usage))
				}
			}
		},
		OnError:  func(e *session.ErrorResult) { printError(out, e) },
		AfterRun: func() { close(done) },
	})
	<-done
}

func replComplete(sess *session.Session, out io.Writer, code string) {
	done := make(chan struct{})
	sess.Complete(code, len(code), session.CompleteCallbacks{
		OnSuccess: func(res *session.CompletionResult) {
			if len(res.List) == 0 {
				fmt.Fprintln(out, dimStyle.Render("no completions"))
				return
			}
			fmt.Fprintln(out, strings.Join(res.List, "  "))
		},
		OnError:  func(e *session.ErrorResult) { printError(out, e) },
		AfterRun: func() { close(done) },
	})
	<-done
}

func replRestart(sess *session.Session, out io.Writer) {
	done := make(chan struct{})
	sess.Restart(nil, func(code int, signal string) {
		fmt.Fprintln(out, dimStyle.Render(fmt.Sprintf("worker restarted (exit code %d, signal %q)", code, signal)))
		close(done)
	})
	<-done
}

func printError(out io.Writer, e *session.ErrorResult) {
	fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("%s: %s", e.Ename, e.Evalue)))
	for _, frame := range e.Traceback {
		fmt.Fprintln(out, dimStyle.Render(frame))
	}
}

func init() {
	replCmd.Flags().StringVar(&replCwd, "cwd", "", "Worker process working directory")
	rootCmd.AddCommand(replCmd)
}
