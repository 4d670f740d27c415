package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/vendee/vendee/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for Vendee.

Choose Smart Buy, type a request such as "2 kg bananas delivered",
press Enter to see recommended sellers, and press d on a mobile seller
to dispatch.

Controls:
  ↑/k, ↓/j - Navigate sellers
  Enter    - Find sellers
  d        - Dispatch to the selected mobile seller
  n        - New request
  Esc      - Edit the request, or back to the menu
  ?        - Toggle help
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	addLocationFlags(tuiCmd)
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	location, err := locationFromFlags(cmd)
	if err != nil {
		return err
	}

	ports := &tui.Ports{
		SmartBuy: smartBuyService,
		Dispatch: dispatchService,
		Settings: settingsService,
	}

	app, err := tui.NewApp(ports, location)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
