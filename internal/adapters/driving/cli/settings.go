package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vendee/vendee/internal/core/domain"
	"github.com/vendee/vendee/internal/core/services"
)

var errSettingsServiceMissing = errors.New("settings service not configured")

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "View and change engine settings",
	Long: `Commands for the engine settings stored in ~/.vendee/config.toml.
Environment variables such as VENDEE_STORAGE_DRIVER override stored values.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		if settingsService == nil {
			return
		}
		for _, k := range settingsService.Keys() {
			cmd.Println(k)
		}
	},
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactively configure storage, events and detection",
	Args:  cobra.NoArgs,
	RunE:  runSettingsWizard,
}

func init() {
	settingsShowCmd.Flags().Bool("json", false, "output settings as JSON")
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsKeysCmd, settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(cmd, settings)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Matching]")
	cmd.Printf("  Top matches: %d\n", settings.Matching.TopMatches)
	cmd.Printf("  Fixed cap: %d\n", settings.Matching.FixedCap)
	cmd.Printf("  Mobile cap (delivery): %d\n", settings.Matching.MobileCapDelivery)
	cmd.Printf("  Mobile cap (pickup): %d\n", settings.Matching.MobileCapPickup)
	cmd.Printf("  Recommendations: %d\n", settings.RecommendLimit)
	cmd.Printf("  Search radius: %.1f km\n", settings.SearchRadiusKm)
	cmd.Printf("  Leaderboard: top %d within %.1f km\n", settings.LeaderboardLimit, settings.LeaderboardKm)
	cmd.Println()

	cmd.Println("[Dispatch]")
	cmd.Printf("  Minutes per km: %.1f\n", settings.MinutesPerKm)
	cmd.Printf("  Max retries: %d\n", settings.MaxRetries)
	cmd.Println()

	cmd.Println("[Demand]")
	cmd.Printf("  Bucket precision: %d\n", settings.BucketPrecision)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Driver: %s\n", settings.StorageDriver)
	if settings.StorageDSN != "" {
		cmd.Printf("  DSN: %s\n", maskDSN(settings.StorageDSN))
	}
	cmd.Println()

	cmd.Println("[Events]")
	if len(settings.EventBrokers) == 0 {
		cmd.Println("  Brokers: (not set, events disabled)")
	} else {
		cmd.Printf("  Brokers: %s\n", strings.Join(settings.EventBrokers, ", "))
		cmd.Printf("  Topic: %s\n", settings.EventTopic)
	}
	cmd.Println()

	cmd.Println("[Detection]")
	if settings.DetectionEndpoint != "" {
		cmd.Printf("  Endpoint: %s\n", settings.DetectionEndpoint)
	}
	if settings.DetectionToken != "" {
		cmd.Printf("  Token: %s\n", maskAPIKey(settings.DetectionToken))
	} else {
		cmd.Printf("  Token: (not set)\n")
	}
	cmd.Printf("  Rate: %.1f req/s, timeout %s\n", settings.DetectionRPS, settings.DetectionTimeout)
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value := args[1]
	if args[0] == services.KeyDetectionToken {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", args[0], value)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errSettingsServiceMissing
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("settings wizard requires an interactive terminal")
	}

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Vendee Settings Wizard")
	cmd.Println("======================")
	cmd.Println()

	cmd.Println("Step 1: Select Storage")
	cmd.Println("----------------------")
	drivers := []domain.StorageDriver{domain.StorageSQLite, domain.StoragePostgres, domain.StorageMemory}
	for i, d := range drivers {
		cmd.Printf("  %d. %s\n", i+1, d)
	}
	cmd.Print("Choice [1]: ")
	driver := drivers[parseChoice(readLine(reader), len(drivers), 1)-1]
	if err := settingsService.Set(services.KeyStorageDriver, string(driver)); err != nil {
		return err
	}
	if driver == domain.StoragePostgres {
		cmd.Print("Postgres DSN: ")
		if err := settingsService.Set(services.KeyStorageDSN, readLine(reader)); err != nil {
			return err
		}
	}
	cmd.Printf("Storage set to: %s\n\n", driver)

	cmd.Println("Step 2: Event Brokers")
	cmd.Println("---------------------")
	cmd.Print("Kafka brokers, comma separated (empty to disable): ")
	if brokers := readLine(reader); brokers != "" {
		if err := settingsService.Set(services.KeyEventBrokers, brokers); err != nil {
			return err
		}
	}
	cmd.Println()

	cmd.Println("Step 3: Image Detection")
	cmd.Println("-----------------------")
	cmd.Print("Inference API token (empty to skip): ")
	if token := readPassword(); token != "" {
		cmd.Println()
		if err := settingsService.Set(services.KeyDetectionToken, token); err != nil {
			return err
		}
		cmd.Printf("Token saved: %s\n", maskAPIKey(token))
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	return nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// parseChoice returns a 1-based menu choice, or defaultVal for empty or
// out-of-range input.
func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDSN hides the password of a URL-style DSN.
func maskDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	scheme := strings.Index(dsn, "://")
	if at < 0 || scheme < 0 || at < scheme {
		return dsn
	}
	creds := dsn[scheme+3 : at]
	if colon := strings.Index(creds, ":"); colon >= 0 {
		creds = creds[:colon] + ":****"
	}
	return dsn[:scheme+3] + creds + dsn[at:]
}
