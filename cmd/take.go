package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/okian/vitalis/internal/domain/assessment"
	"github.com/okian/vitalis/internal/domain/catalog"
	"github.com/okian/vitalis/internal/domain/report"
	"github.com/okian/vitalis/internal/domain/responses"
	"github.com/okian/vitalis/pkg/logger"
	"github.com/spf13/cobra"
)

// errAbandoned is returned when the user quits before the last question.
var errAbandoned = errors.New("assessment abandoned")

func newTakeCmd() *cobra.Command {
	var reportPath string

	cmd := &cobra.Command{
		Use:   "take",
		Short: "Take the assessment in the terminal",
		Long: "Answer each question with its option letter. Enter keeps the current answer, " +
			"b goes back one question and q quits.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.InitWithOptions(logger.WithWriter(cmd.ErrOrStderr())); err != nil {
				return fmt.Errorf("failed to initialize logging: %w", err)
			}
			_ = logger.SetLevelString("warn")

			t := &terminal{
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
				a:   assessment.New(catalog.Default()),
				now: time.Now,
			}
			text, err := t.run(cmd.Context())
			if errors.Is(err, errAbandoned) {
				fmt.Fprintln(t.out, "Assessment abandoned.")
				return nil
			}
			if err != nil {
				return err
			}
			if reportPath == "" {
				return nil
			}
			if err := os.WriteFile(reportPath, []byte(text), 0o600); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(t.out, "Report saved to %s\n", reportPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&reportPath, "output", "o", "", "Also save the report to this file")
	return cmd
}

// terminal is a line-oriented host for one assessment.
type terminal struct {
	in  *bufio.Scanner
	out io.Writer
	a   *assessment.Assessment
	now func() time.Time
}

// run asks questions until the assessment completes and returns the
// rendered report, which is also printed.
func (t *terminal) run(ctx context.Context) (string, error) {
	total := t.a.Catalog().Count()
	fmt.Fprintf(t.out, "Health Risk Assessment: %d questions.\n", total)

	for !t.a.Completed() {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		q, err := t.a.CurrentQuestion()
		if err != nil {
			return "", err
		}
		t.show(q, t.a.State().Index, total)

		if !t.in.Scan() {
			if err := t.in.Err(); err != nil {
				return "", err
			}
			return "", errAbandoned
		}
		if quit := t.handle(q, strings.ToLower(strings.TrimSpace(t.in.Text()))); quit {
			return "", errAbandoned
		}
	}

	o, err := t.a.Outcome()
	if err != nil {
		return "", err
	}
	text := report.Render(report.Input{
		Score:       o.Score,
		MaxScore:    o.MaxScore,
		Percentage:  o.Percentage,
		Category:    o.Category,
		CompletedAt: t.now(),
	})
	fmt.Fprint(t.out, "\n"+text)
	return text, nil
}

func (t *terminal) show(q catalog.Question, index, total int) {
	current, _ := t.a.AnswerFor(q.ID)
	fmt.Fprintf(t.out, "\nQuestion %d of %d\n%s\n", index+1, total, q.Text)
	for _, o := range q.Options {
		mark := " "
		if o.ID == current {
			mark = "*"
		}
		fmt.Fprintf(t.out, " %s %s) %s\n", mark, o.ID, o.Text)
	}
	fmt.Fprint(t.out, "> ")
}

// handle applies one line of input and reports whether the user quit.
func (t *terminal) handle(q catalog.Question, input string) bool {
	switch input {
	case "q":
		return true
	case "b":
		if t.a.State().Index == 0 {
			fmt.Fprintln(t.out, "Already at the first question.")
			return false
		}
		_, _ = t.a.Retreat()
		return false
	case "":
		if !t.a.HasAnswer(q.ID) {
			fmt.Fprintln(t.out, "Please choose an option.")
			return false
		}
	default:
		if _, err := t.a.RecordAnswer(q.ID, input); err != nil {
			if errors.Is(err, responses.ErrUnknownOption) {
				fmt.Fprintf(t.out, "%q is not an option.\n", input)
				return false
			}
			fmt.Fprintln(t.out, err)
			return false
		}
	}
	_, _ = t.a.Advance()
	return false
}
