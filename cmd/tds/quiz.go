package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/tds/internal/cli"
	"github.com/aretw0/tds/internal/presentation/tui"
	"github.com/aretw0/tds/pkg/runner"
	"github.com/spf13/cobra"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Answer the questionnaire interactively",
	Long: `Asks each question on a 1 (strongly disagree) to 5 (strongly agree) scale and prints
your zone, the generated prompt and a shareable link. Progress is saved after every
answer; type "quit" to stop and run again with --resume to continue.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, cfg, logger, cleanup, err := openEngine(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		jsonMode, _ := cmd.Flags().GetBool("json")
		plain, _ := cmd.Flags().GetBool("plain")
		resume, _ := cmd.Flags().GetBool("resume")
		save, _ := cmd.Flags().GetBool("save")
		session, _ := cmd.Flags().GetString("session")

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if !jsonMode && !plain && cli.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		_, err = cli.RunQuiz(ctx, engine, cli.QuizOptions{
			JSON:      jsonMode,
			Plain:     plain,
			Resume:    resume,
			Save:      save,
			SessionID: session,
			Focus:     focusFlag(cmd, cfg),
		}, logger)
		switch {
		case errors.Is(err, runner.ErrAborted), errors.Is(err, context.Canceled):
			if !jsonMode {
				fmt.Println("\nProgress saved. Run 'tds quiz --resume' to continue.")
			}
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(quizCmd)
	quizCmd.Flags().String("focus", "", "Focus persona id or name")
	quizCmd.Flags().Bool("json", false, "Use JSON-Lines input and output")
	quizCmd.Flags().Bool("plain", false, "Disable Markdown rendering and the banner")
	quizCmd.Flags().Bool("resume", false, "Continue from previously saved answers")
	quizCmd.Flags().Bool("save", false, "Save the result to the configured store")
	quizCmd.Flags().String("session", runner.DefaultSessionID, "Key the in-progress answers are saved under")
}
