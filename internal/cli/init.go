package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pelangilabs/rainbowd/internal/config"
	"github.com/pelangilabs/rainbowd/internal/db"
	"github.com/pelangilabs/rainbowd/internal/engine"
	"github.com/pelangilabs/rainbowd/internal/models"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize rainbowd configuration",
	Long:  `Interactive wizard to set up rainbowd configuration including the engine endpoint and databases.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🌈 Welcome to Rainbowd - Intent Classifier Console Setup")
	fmt.Println("========================================================")
	fmt.Println()

	// Check if config already exists
	configPath := config.GetConfigPath()
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		confirmed, err := promptYesNo(reader, "Do you want to overwrite it? (y/N): ")
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	// Engine configuration
	fmt.Println("\n🤖 Classification Engine")
	fmt.Println("------------------------")

	engineURL, err := promptOptional(reader, "Engine base URL [http://localhost:3001]: ", "http://localhost:3001")
	if err != nil {
		return err
	}
	cfg.Engine.BaseURL = engineURL

	// Database configuration
	fmt.Println("\n📊 Database Configuration")
	fmt.Println("--------------------------")

	sqlitePath, err := promptOptional(reader, "SQLite path [~/.rainbowd/rainbowd.db]: ", "~/.rainbowd/rainbowd.db")
	if err != nil {
		return err
	}
	cfg.SQLDatabase.URI = sqlitePath

	mongoURI, err := promptOptional(reader, "MongoDB URI [mongodb://localhost:27017]: ", "mongodb://localhost:27017")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.URI = mongoURI

	mongoName, err := promptOptional(reader, "MongoDB database name [rainbowd]: ", "rainbowd")
	if err != nil {
		return err
	}
	cfg.NoSQLDatabase.Database = mongoName

	// Test database connections
	fmt.Println("\n🔌 Testing database connections...")

	sqlConfig := &models.Config{
		Provider: cfg.SQLDatabase.Provider,
		URI:      cfg.SQLDatabase.URI,
		Database: cfg.SQLDatabase.Database,
	}
	nosqlConfig := &models.Config{
		Provider: cfg.NoSQLDatabase.Provider,
		URI:      cfg.NoSQLDatabase.URI,
		Database: cfg.NoSQLDatabase.Database,
	}

	testDB, dbErr := db.New(sqlConfig, nosqlConfig)
	if dbErr != nil {
		return fmt.Errorf("failed to create database: %w", dbErr)
	}

	ctx := context.Background()
	if err := testDB.Connect(ctx); err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer testDB.Disconnect(ctx)

	if err := testDB.Ping(ctx); err != nil {
		fmt.Printf("❌ Failed to ping database: %v\n", err)
		return err
	}

	fmt.Println("✅ Database connection successful!")

	// Test engine connectivity, non-fatal
	fmt.Println("\n🔌 Testing engine connection...")
	testEngine := engine.New(cfg.Engine.BaseURL, 10*time.Second, cfg.Engine.RatePerSecond)
	if err := testEngine.Ping(ctx); err != nil {
		fmt.Printf("⚠️  Engine unreachable: %v\n", err)
		fmt.Println("   Saving config anyway. Start the engine before using the console.")
	} else {
		fmt.Println("✅ Engine connection successful!")
	}

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	// Summary
	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Println(FormatLabelValue("Engine:", cfg.Engine.BaseURL))
	fmt.Println(FormatLabelValue("SQLite:", cfg.SQLDatabase.URI))
	fmt.Println(FormatLabelValue("MongoDB:", fmt.Sprintf("%s (%s)", cfg.NoSQLDatabase.URI, cfg.NoSQLDatabase.Database)))
	fmt.Println()
	fmt.Println("🎉 Setup complete! You can now use rainbowd.")
	fmt.Println()
	fmt.Println("ℹ️  Add provider API keys under 'providers:' in the config file")
	fmt.Println("   to enable latency probes.")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run migrations: rainbowd migrate up")
	fmt.Println("  2. Start the API server: rainbowd api")
	fmt.Println("  3. Check provider latency: rainbowd probe")

	return nil
}
