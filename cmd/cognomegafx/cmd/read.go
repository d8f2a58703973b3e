package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/backend"
	"github.com/Bharath-kolekar/cognomegafxg/internal/content"
	"github.com/Bharath-kolekar/cognomegafxg/internal/speech"
)

var (
	readFile     string
	readCloned   bool
	readVoice    string
	readLanguage string
	readAutoLang bool
	readMaxChars string
	readArchive  bool
	readOutput   string
)

var readCmd = &cobra.Command{
	Use:   "read [html]",
	Short: "Clean a document and synthesize it in chunks",
	Long: `Cleans pasted HTML or an uploaded document down to speakable text,
then synthesizes the whole text through the chunked long-form endpoint.

Input comes from --file, from the arguments, or from standard input.
When the backend has no cleaning endpoint the raw text is spoken as-is.`,
	RunE: runRead,
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().StringVarP(&readFile, "file", "f", "",
		"Document to clean and read")
	readCmd.Flags().BoolVar(&readCloned, "cloned", false,
		"Use the cloned voice (default: saved preference)")
	readCmd.Flags().StringVar(&readVoice, "voice", "",
		"Voice id from the voices list (default: saved preference)")
	readCmd.Flags().StringVarP(&readLanguage, "language", "l", "",
		"Language hint for every chunk (default: saved preference)")
	readCmd.Flags().BoolVar(&readAutoLang, "auto-language", false,
		"Detect the language per chunk instead of using a fixed hint")
	readCmd.Flags().StringVar(&readMaxChars, "max-chars", "",
		"Target chunk size in characters (clamped to 200..2000, default 500)")
	readCmd.Flags().BoolVar(&readArchive, "archive", false,
		"Also store the clip in the shared clip archive")
	readCmd.Flags().StringVarP(&readOutput, "output", "o", "",
		"Copy the clip to this path instead of keeping the temporary file")
}

func runRead(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()

	intake := content.New(app.client, app.log)

	cleaned, err := cleanInput(cmd, intake, args)
	if err != nil {
		return err
	}

	if cleaned.Title != "" {
		fmt.Printf("Reading: %s\n", cleaned.Title)
	}

	voices, err := app.client.Voices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	orch := speech.New(app.client, speech.NewFileSink(app.clipsDir()), app.log)

	clip, err := orch.Read(ctx, speech.ReadInput{
		Text:         cleaned.Text,
		Voices:       voices,
		UseCloned:    app.useCloned(cmd, readCloned),
		Voice:        app.voice(cmd, readVoice),
		Language:     app.language(cmd, readLanguage),
		AutoLanguage: readAutoLang,
		MaxChars:     backend.ResolveChunkChars(readMaxChars),
	})
	if err != nil {
		return fmt.Errorf("synthesis failed: %w", err)
	}

	return app.deliverClip(ctx, clip, orch.Engine(), readOutput, readArchive)
}

func cleanInput(cmd *cobra.Command, intake *content.Intake, args []string) (backend.CleanedContent, error) {
	ctx := cmd.Context()

	if readFile != "" {
		cleaned, err := intake.CleanFile(ctx, readFile)
		if err != nil {
			return backend.CleanedContent{}, fmt.Errorf("failed to clean %s: %w", readFile, err)
		}

		return cleaned, nil
	}

	html, err := readHTML(args)
	if err != nil {
		return backend.CleanedContent{}, err
	}

	cleaned, err := intake.CleanText(ctx, html)
	if err != nil {
		return backend.CleanedContent{}, fmt.Errorf("failed to clean input: %w", err)
	}

	return cleaned, nil
}

func readHTML(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read input from stdin: %w", err)
	}

	return string(raw), nil
}
