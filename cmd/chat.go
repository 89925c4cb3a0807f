/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tempoflow-ai/tempoflow/internal/app"
	"github.com/tempoflow-ai/tempoflow/internal/assistant"
	"github.com/tempoflow-ai/tempoflow/internal/config"
	"github.com/tempoflow-ai/tempoflow/internal/logger"
	"github.com/tempoflow-ai/tempoflow/internal/ui"
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Ask the AI assistant",
	Long: `Ask the AI assistant a question, or start an interactive chat when no
prompt is given. When AI insights are enabled the assistant sees your
current productivity score.

The provider comes from ai.provider in the config file (gemini, openai,
ollama, anthropic or offline).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, settings, err := openAppWithSettings(cmd.Context())
		if err != nil {
			return err
		}

		if len(args) > 0 {
			prompt := strings.Join(args, " ")
			logger.SetLastInput(prompt)

			spinner := ui.NewSpinner("Thinking...")
			if !isJSON() && !isQuiet() {
				spinner.Start()
			}
			res, err := a.Chat(cmd.Context(), settings, app.ChatRequest{Prompt: prompt})
			spinner.Stop()
			if err != nil {
				return err
			}
			if isJSON() {
				return printJSON(res)
			}
			fmt.Println(res.Reply)
			return nil
		}

		if isJSON() {
			return fmt.Errorf("interactive chat is not supported with --json; pass a prompt")
		}
		return runInteractiveChat(cmd, a, settings)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runInteractiveChat(cmd *cobra.Command, a *app.Context, settings config.Settings) error {
	conv, err := a.NewConversation(cmd.Context(), settings)
	if err != nil {
		return fmt.Errorf("start assistant: %w", err)
	}

	fmt.Println(ui.StylePrefixAssistant.Render("Assistant: ") + assistant.Greeting)
	fmt.Println(ui.StyleSubtle.Render("Type 'exit' or press Ctrl+D to leave."))

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(ui.StylePrefixUser.Render("You: "))
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		prompt := strings.TrimSpace(scanner.Text())
		switch prompt {
		case "":
			continue
		case "exit", "quit":
			return nil
		}
		logger.SetLastInput(prompt)

		spinner := ui.NewSpinner("Thinking...")
		spinner.Start()
		reply, err := conv.Send(cmd.Context(), prompt)
		spinner.Stop()
		if err != nil && !errors.Is(err, assistant.ErrEmptyPrompt) {
			LogError("assistant request", err)
		}
		fmt.Println(ui.StylePrefixAssistant.Render("Assistant: ") + reply)
	}
}
