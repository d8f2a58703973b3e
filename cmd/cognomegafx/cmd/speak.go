package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/prefs"
	"github.com/Bharath-kolekar/cognomegafxg/internal/speech"
)

// previewSentence is the canned text spoken when --preview is given.
const previewSentence = "This is a short preview of your current voice selection."

var (
	speakCloned   bool
	speakVoice    string
	speakLanguage string
	speakPreview  bool
	speakArchive  bool
	speakOutput   string
)

var speakCmd = &cobra.Command{
	Use:   "speak [text]",
	Short: "Synthesize a short text into a playable clip",
	Long: `Synthesizes the given text with the currently selected voice and
writes the resulting WAV clip to a temporary file.

The text comes from the arguments, or from standard input when no
arguments are given. With --preview a short canned sentence is spoken
instead, which is useful for auditioning a voice change.`,
	RunE: runSpeak,
}

func init() {
	rootCmd.AddCommand(speakCmd)

	speakCmd.Flags().BoolVar(&speakCloned, "cloned", false,
		"Use the cloned voice (default: saved preference)")
	speakCmd.Flags().StringVar(&speakVoice, "voice", "",
		"Voice id from the voices list (default: saved preference)")
	speakCmd.Flags().StringVarP(&speakLanguage, "language", "l", "",
		"Language hint, empty for auto-detection (default: saved preference)")
	speakCmd.Flags().BoolVar(&speakPreview, "preview", false,
		"Speak a canned preview sentence instead of the input")
	speakCmd.Flags().BoolVar(&speakArchive, "archive", false,
		"Also store the clip in the shared clip archive")
	speakCmd.Flags().StringVarP(&speakOutput, "output", "o", "",
		"Copy the clip to this path instead of keeping the temporary file")
}

func runSpeak(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	text, err := speakText(args)
	if err != nil {
		return err
	}

	if !speakPreview {
		// Keep the draft so the next invocation can reuse it.
		saveErr := app.prefs.Set(prefs.KeyDraftText, text)
		if saveErr != nil {
			app.log.Warn("Failed to save draft text: %v", saveErr)
		}
	}

	voices, err := app.client.Voices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	// The clip is handed to the user, so the orchestrator is not closed
	// on success; closing would release the file we just reported.
	orch := speech.New(app.client, speech.NewFileSink(app.clipsDir()), app.log)

	clip, err := orch.Speak(ctx, speech.SpeakInput{
		Text:      text,
		Voices:    voices,
		UseCloned: app.useCloned(cmd, speakCloned),
		Voice:     app.voice(cmd, speakVoice),
		Language:  app.language(cmd, speakLanguage),
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	return app.deliverClip(ctx, clip, orch.Engine(), speakOutput, speakArchive)
}

// speakText resolves the input text: the preview sentence, the joined
// arguments, or standard input.
func speakText(args []string) (string, error) {
	if speakPreview {
		return previewSentence, nil
	}

	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read text from stdin: %w", err)
	}

	return string(raw), nil
}

// useCloned resolves the cloned-voice choice: an explicit flag wins and
// is saved for the next run, otherwise the saved preference applies.
func (a *app) useCloned(cmd *cobra.Command, flagValue bool) bool {
	if cmd.Flags().Changed("cloned") {
		a.savePref(prefs.KeyCloned, flagValue)

		return flagValue
	}

	return a.prefs.Bool(prefs.KeyCloned, false)
}

// voice resolves the explicit voice selection the same way. A stale
// saved id is harmless: the orchestrator falls back to the token policy
// when the selection is absent from the fetched list.
func (a *app) voice(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("voice") {
		a.savePref(prefs.KeyVoice, flagValue)

		return flagValue
	}

	return a.prefs.String(prefs.KeyVoice, "")
}

// language resolves the language hint the same way.
func (a *app) language(cmd *cobra.Command, flagValue string) string {
	if cmd.Flags().Changed("language") {
		a.savePref(prefs.KeyLanguage, flagValue)

		return flagValue
	}

	return a.prefs.String(prefs.KeyLanguage, "")
}

// clipsDir returns the directory synthesized clips are written to.
func (a *app) clipsDir() string {
	if a.cfg.Paths.ClipsDir != "" {
		return a.cfg.Paths.ClipsDir
	}

	return os.TempDir()
}

// deliverClip finishes a successful synthesis: optionally copies the clip
// to the requested output path, optionally archives it, and reports where
// the audio ended up.
func (a *app) deliverClip(
	ctx context.Context,
	clip speech.Clip,
	engine string,
	outputPath string,
	archiveClip bool,
) error {
	path := clip.Path()

	if outputPath != "" {
		err := copyFile(clip.Path(), outputPath)
		if err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}

		releaseErr := clip.Release()
		if releaseErr != nil {
			a.log.Warn("Failed to remove temporary clip: %v", releaseErr)
		}

		path = outputPath
	}

	fmt.Printf("Generated clip: %s (engine: %s)\n", path, engine)

	if archiveClip {
		key, err := a.archiveClip(ctx, path)
		if err != nil {
			return fmt.Errorf("failed to archive clip: %w", err)
		}

		fmt.Printf("Archived as: %s\n", key)
	}

	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", src, err)
	}

	err = os.WriteFile(dst, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", dst, err)
	}

	return nil
}

func closeQuietly(c interface{ Close() error }) {
	closeErr := c.Close()
	if closeErr != nil {
		fmt.Fprintf(os.Stderr, "error during cleanup: %v\n", closeErr)
	}
}
