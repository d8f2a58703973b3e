package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/record"
)

var (
	transcribeFile   string
	transcribeRecord bool
)

var transcribeCmd = &cobra.Command{
	Use:   "transcribe",
	Short: "Transcribe a recording or an audio file",
	Long: `Submits audio to the backend transcription endpoint.

With --file an existing audio file is submitted directly. With --record
the microphone is captured until Enter is pressed, the capture is
finalized to WAV and then submitted.`,
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().StringVarP(&transcribeFile, "file", "f", "",
		"Audio file to transcribe")
	transcribeCmd.Flags().BoolVarP(&transcribeRecord, "record", "r", false,
		"Record from the microphone until Enter is pressed")
	transcribeCmd.MarkFlagsMutuallyExclusive("file", "record")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if transcribeRecord {
		return transcribeFromMicrophone(cmd, app)
	}

	if transcribeFile == "" {
		return fmt.Errorf("either --file or --record must be provided")
	}

	audio, err := os.ReadFile(transcribeFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", transcribeFile, err)
	}

	result, err := app.client.Transcribe(cmd.Context(), filepath.Base(transcribeFile), audio)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	printTranscription(result.Text, result.RequestID)

	return nil
}

func transcribeFromMicrophone(cmd *cobra.Command, app *app) error {
	ctx := cmd.Context()

	source, err := record.NewPortAudioSource()
	if err != nil {
		return fmt.Errorf("failed to open microphone: %w", err)
	}
	defer closeQuietly(source)

	controller := record.New(source, app.client, app.log)

	_, started, err := controller.Toggle(ctx)
	if err != nil {
		return fmt.Errorf("failed to start recording: %w", err)
	}

	if !started {
		return fmt.Errorf("recording did not start")
	}

	fmt.Println("Recording... press Enter to stop.")

	_, err = bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		app.log.Warn("Failed to read stop signal: %v", err)
	}

	transcription, _, err := controller.Toggle(ctx)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	printTranscription(transcription.Text, transcription.RequestID)

	return nil
}

func printTranscription(text, requestID string) {
	fmt.Println(text)

	if requestID != "" {
		fmt.Printf("Request ID: %s\n", requestID)
	}
}
