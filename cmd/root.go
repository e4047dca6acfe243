package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	Version = "0.4.0"
)

func showBanner() {
	greenColor := color.New(color.FgGreen, color.Bold)

	banner := []string{
		"╔════════════════════════════════════════════════════════════════════╗",
		"║  ██████╗  █████╗ ███╗   ██╗██╗  ██╗███████╗██╗   ██╗███╗   ██╗    ║",
		"║  ██╔══██╗██╔══██╗████╗  ██║██║ ██╔╝██╔════╝╚██╗ ██╔╝████╗  ██║    ║",
		"║  ██████╔╝███████║██╔██╗ ██║█████╔╝ ███████╗ ╚████╔╝ ██╔██╗ ██║    ║",
		"║  ██╔══██╗██╔══██║██║╚██╗██║██╔═██╗ ╚════██║  ╚██╔╝  ██║╚██╗██║    ║",
		"║  ██████╔╝██║  ██║██║ ╚████║██║  ██╗███████║   ██║   ██║ ╚████║    ║",
		"║  ╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═══╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚═╝  ╚═══╝    ║",
		"║                                                                    ║",
		"║          🏦 Reproducible Synthetic Retail-Banking Data 🏦          ║",
		"╚════════════════════════════════════════════════════════════════════╝",
	}

	for _, line := range banner {
		greenColor.Println(line)
	}

	fmt.Print("                        ")
	color.New(color.FgCyan, color.Bold).Print("Version: ")
	color.New(color.FgYellow, color.Bold).Printf("%s\n", Version)
}

var rootCmd = &cobra.Command{
	Use:   "banksynth",
	Short: "Generate a synthetic, internally consistent retail-banking dataset",
	Long: `
banksynth generates a reproducible retail-banking dataset: customers, accounts,
transactions, fraud alerts, loans, account events, risk assessments, segment
history, regulatory reports and macro-economic indicators.

Every table is built from a fixed seed, so the same configuration always
produces the same data. Output goes to CSV files and, optionally, to a
database schema.

Database Support:
- PostgreSQL (COPY bulk load)
- MySQL
- SQLite (embedded databases)`,

	Run: func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			fmt.Printf("banksynth version %s\n", Version)
			os.Exit(0)
		}

		if len(args) == 0 {
			showBanner()
			fmt.Println()
			cmd.Help()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./banksynth.config.json)")
	rootCmd.Flags().BoolP("version", "v", false, "Show CLI version")
}

func initConfig() {
	if err := godotenv.Load(); err != nil {
		godotenv.Load(".env")
		godotenv.Load(".env.local")
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("json")
		viper.SetConfigName("banksynth.config")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && cfgFile != "" {
			color.Yellow("⚠️  Could not read config file %s: %v", cfgFile, err)
		}
	}
}
