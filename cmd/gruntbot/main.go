package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/grunthall/gruntbot/internal/config"
	"github.com/grunthall/gruntbot/internal/gateway"
	"github.com/grunthall/gruntbot/internal/profile"
)

var rootCmd = &cobra.Command{
	Use:   "gruntbot",
	Short: "gruntbot - orcish chat companion that remembers its warband",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the bot (channels + maintenance jobs)",
	RunE:  runGateway,
}

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Initialize config and resource files",
	RunE:  runOnboard,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show gruntbot status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(runCmd, onboardCmd, statusCmd)
}

func main() {
	// Pick up a local .env before anything reads the environment.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runGateway(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cfg.Provider.APIKey == "" {
		return fmt.Errorf("API key not set. Run 'gruntbot onboard' or set GRUNTBOT_API_KEY / ANTHROPIC_API_KEY")
	}

	gw, err := gateway.New(cfg)
	if err != nil {
		return fmt.Errorf("create gateway: %w", err)
	}

	return gw.Run(context.Background())
}

func runOnboard(cmd *cobra.Command, args []string) error {
	cfgDir := config.ConfigDir()
	cfgPath := config.ConfigPath()

	if err := os.MkdirAll(cfgDir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data, _ := json.MarshalIndent(cfg, "", "  ")
		if err := os.WriteFile(cfgPath, data, 0644); err != nil {
			return fmt.Errorf("write config: %w", err)
		}
		fmt.Printf("Created config: %s\n", cfgPath)
	} else {
		fmt.Printf("Config already exists: %s\n", cfgPath)
	}

	cfg, _ := config.LoadConfig()
	if err := os.MkdirAll(cfg.Bot.ResourceDir, 0755); err != nil {
		return fmt.Errorf("create resource dir: %w", err)
	}

	writeIfNotExists(filepath.Join(cfg.Bot.ResourceDir, "grunts.txt"), defaultGrunts)
	writeIfNotExists(filepath.Join(cfg.Bot.ResourceDir, "greetings.txt"), defaultGreetings)

	fmt.Printf("Resources ready: %s\n", cfg.Bot.ResourceDir)
	fmt.Println("\nNext steps:")
	fmt.Printf("  1. Edit %s to set your API key and telegram token\n", cfgPath)
	fmt.Println("  2. Or set GRUNTBOT_API_KEY and GRUNTBOT_TELEGRAM_TOKEN")
	fmt.Println("  3. Run 'gruntbot run' to start the bot")

	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Config: error (%v)\n", err)
		return nil
	}

	fmt.Printf("Config: %s\n", config.ConfigPath())
	fmt.Printf("Model: %s\n", cfg.Agent.Model)
	fmt.Printf("Provider: %s\n", providerDisplay(cfg.Provider.Type))
	if cfg.Provider.APIKey != "" && len(cfg.Provider.APIKey) > 8 {
		masked := cfg.Provider.APIKey[:4] + "..." + cfg.Provider.APIKey[len(cfg.Provider.APIKey)-4:]
		fmt.Printf("API Key: %s\n", masked)
	} else if cfg.Provider.APIKey != "" {
		fmt.Println("API Key: set")
	} else {
		fmt.Println("API Key: not set")
	}
	fmt.Printf("Telegram: enabled=%v\n", cfg.Channels.Telegram.Enabled)
	fmt.Printf("Profiles: %s\n", cfg.Bot.ProfilePath)

	store := profile.NewStore(cfg.Bot.ProfilePath)
	users := store.Users()
	fmt.Printf("Known users: %d\n", len(users))
	for _, id := range users {
		p := store.Get(id)
		label, count := profile.Rank(p.WordCount)
		fmt.Printf("  %s: %d notes, %s (%d words)\n", id, len(p.History), label, count)
	}

	return nil
}

func providerDisplay(t string) string {
	if t == "" {
		return "anthropic (default)"
	}
	return t
}

func writeIfNotExists(path, content string) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = os.WriteFile(path, []byte(content), 0644)
		fmt.Printf("  Created: %s\n", path)
	}
}

const defaultGrunts = `Zug zug.
Dabu!
Lok'tar ogar!
Me not that kind of orc.
Work, work.
Something need doing?
`

const defaultGreetings = `welcome to the warband! Grab an axe and some pie.
another grunt joins the horde!
GruntBot smells fresh meat. Welcome!
`
