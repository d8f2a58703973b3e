package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Bharath-kolekar/cognomegafxg/internal/prefs"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Inspect and change saved preferences",
	Long: `Manages the persistent client preferences: backend base URL, engine
choice, cloned-voice flag, language hint, selected voice and draft text.

Preference keys:
  cgx_api      - Backend base URL
  cgx_engine   - Engine sent with synthesis requests
  cgx_cloned   - Whether to use the cloned voice (true/false)
  cgx_lang     - Fixed language hint, empty for auto-detection
  cgx_voice    - Selected voice token
  cgx_ttsText  - Draft synthesis text`,
}

var prefsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every saved preference",
	RunE:  runPrefsList,
}

var prefsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one preference",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrefsGet,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Save one preference",
	Args:  cobra.ExactArgs(2),
	RunE:  runPrefsSet,
}

var prefsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every saved preference",
	RunE:  runPrefsClear,
}

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsListCmd)
	prefsCmd.AddCommand(prefsGetCmd)
	prefsCmd.AddCommand(prefsSetCmd)
	prefsCmd.AddCommand(prefsClearCmd)
}

func runPrefsList(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	for _, key := range prefs.Keys() {
		fmt.Printf("%-12s %s\n", key, app.prefs.String(key, ""))
	}

	return nil
}

func runPrefsGet(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	key, err := resolveKey(args[0])
	if err != nil {
		return err
	}

	fmt.Println(app.prefs.String(key, ""))

	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	key, err := resolveKey(args[0])
	if err != nil {
		return err
	}

	err = app.prefs.Set(key, coerceValue(key, args[1]))
	if err != nil {
		return fmt.Errorf("failed to save preference: %w", err)
	}

	return nil
}

func runPrefsClear(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	err = app.prefs.Clear()
	if err != nil {
		return fmt.Errorf("failed to clear preferences: %w", err)
	}

	return nil
}

func resolveKey(name string) (prefs.Key, error) {
	for _, key := range prefs.Keys() {
		if string(key) == name {
			return key, nil
		}
	}

	return "", fmt.Errorf("unknown preference key: %s", name)
}

// coerceValue stores the cloned flag as a real boolean so reads through
// the typed accessors keep working.
func coerceValue(key prefs.Key, raw string) any {
	if key != prefs.KeyCloned {
		return raw
	}

	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return raw
	}

	return parsed
}
