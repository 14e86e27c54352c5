/*
Package runner drives the questionnaire over a pluggable I/O handler.

It asks each unanswered question, validates the reply against the answer scale,
saves progress after every answer so an interrupted quiz can be resumed, and finally
hands the complete answer set to the engine for scoring.

# Key Components

  - Runner: the question loop. It owns no scoring logic.
  - IOHandler: decouples how questions are shown and replies are read.
  - TextHandler: interactive terminal usage.
  - JSONHandler: JSON-Lines for scripts and other programs.

# Usage

	r := runner.NewRunner(
		runner.WithEngine(engine),
		runner.WithStore(store),
		runner.WithSessionID("default"),
		runner.WithResume(true),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	result, err := r.Run(ctx)
	if errors.Is(err, runner.ErrAborted) {
		fmt.Println("progress saved, run again to resume")
	}
*/
package runner
