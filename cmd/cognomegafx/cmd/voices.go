package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/prefs"
	"github.com/Bharath-kolekar/cognomegafxg/internal/speech"
)

var voicesCmd = &cobra.Command{
	Use:   "voices",
	Short: "List the voices the backend offers",
	Long: `Lists every voice the backend offers, marking the one the current
cloned-voice preference resolves to.`,
	RunE: runVoices,
}

func init() {
	rootCmd.AddCommand(voicesCmd)
}

func runVoices(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	voices, err := app.client.Voices(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	if len(voices) == 0 {
		fmt.Println("The backend offers no voices.")

		return nil
	}

	selected, _ := speech.ResolvePreferredVoice(
		voices,
		app.prefs.String(prefs.KeyVoice, ""),
		app.useCloned(cmd, false),
	)

	for _, voice := range voices {
		marker := " "
		if voice.ID == selected.ID {
			marker = "*"
		}

		fmt.Printf("%s %-16s %-24s %s\n", marker, voice.ID, voice.Label, voice.Engine)
	}

	return nil
}
