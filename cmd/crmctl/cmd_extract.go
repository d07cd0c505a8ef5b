package main

import (
	"encoding/json"
	"fmt"

	"ai-crm-be/internal/config"
	"ai-crm-be/pkg/extraction"
	"ai-crm-be/pkg/llm/factory"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	extractPromptOnly bool
	extractNoSearch   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract [file|-]",
	Short: "Extract contacts from text without saving them",
	Long:  `Runs the LLM extraction on the given text and prints the contacts that would be created.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractPromptOnly, "prompt", false, "print the prompt instead of calling the model")
	extractCmd.Flags().BoolVar(&extractNoSearch, "no-search", false, "disable search grounding")
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no input text")
	}

	if extractPromptOnly {
		fmt.Fprintln(cmd.OutOrStdout(), extraction.BuildPrompt(text))
		return nil
	}

	cfg := config.Load()
	provider, err := factory.NewLLMProvider(cmd.Context(), cfg.Ai.LLMProvider, cfg.Ai.LLMModel, cfg.Ai.OllamaBaseURL, cfg.Keys.GoogleGemini)
	if err != nil {
		return err
	}

	bridge := extraction.NewBridge(provider, nil,
		extraction.WithSearchGrounding(cfg.Ai.SearchGrounding && !extractNoSearch),
		extraction.WithTemperature(cfg.Ai.Temperature),
	)
	color.Cyan("Extracting with %s...", provider.Name())

	inserts, err := bridge.Extract(cmd.Context(), text)
	if err != nil {
		return err
	}
	if len(inserts) == 0 {
		color.Yellow("No contacts found.")
		return nil
	}

	out, err := json.MarshalIndent(inserts, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	color.Green("%d contact(s) extracted", len(inserts))
	return nil
}
