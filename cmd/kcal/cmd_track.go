package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spboyer/kcal/internal/form"
	"github.com/spboyer/kcal/internal/locale"
	"github.com/spboyer/kcal/internal/render"
	"github.com/spboyer/kcal/internal/spinner"
	"github.com/spboyer/kcal/internal/tracker"
)

func newTrackCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "track",
		Short: "Log meals interactively",
		Long: `Start an interactive logging session.

Each line you enter is sent for estimation. Accepted entries are added to the
session list and the running total is shown. When an estimate fails the text
is kept so it can be retried. The session ends on Ctrl-C or end of input.`,
		Args: cobra.NoArgs,
		RunE: trackCommandE,
	}
}

func trackCommandE(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	est, err := newEstimator(cfg)
	if err != nil {
		return err
	}

	p := locale.Printer(cfg.Language())
	session := &trackSession{
		tracker:  tracker.New(est, tracker.WithNotice(p.Sprintf(locale.KeyFailure))),
		prompter: form.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), p),
		renderer: render.New(p),
		out:      cmd.OutOrStdout(),
		progress: cmd.ErrOrStderr(),
		busy:     p.Sprintf(locale.KeyAnalyzing),
		animate:  isTerminal(cmd.ErrOrStderr()),
	}

	fmt.Fprintf(session.out, "%s\n", p.Sprintf(locale.KeyTitle)) //nolint:errcheck
	return session.run(cmd.Context())
}

// trackSession wires the input form, the tracker and the renderer together.
type trackSession struct {
	tracker  *tracker.Tracker
	prompter form.Prompter
	renderer *render.Renderer
	out      io.Writer
	progress io.Writer
	busy     string
	animate  bool
}

func (s *trackSession) run(ctx context.Context) error {
	for {
		text, err := s.prompter.Prompt(ctx, s.tracker.Draft())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var (
			outcome   *tracker.Outcome
			submitErr error
		)
		spinner.Run(ctx, s.progress, s.busy, s.animate, func() {
			outcome, submitErr = s.tracker.Submit(ctx, text)
		})
		if submitErr != nil {
			return submitErr
		}

		switch outcome.Status {
		case tracker.StatusIgnored:
			continue
		case tracker.StatusFailed:
			s.renderer.Notice(s.out, outcome.Notice)
		case tracker.StatusAccepted:
			l := s.tracker.Ledger()
			s.renderer.Ledger(s.out, l.Records(), l.Aggregate())
		}
	}
}
