package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"log-cleaner/infrastructure/config"

	"github.com/spf13/cobra"
)

// DefaultOutput is the default output writer for config commands
var DefaultOutput OutputWriter = os.Stdout

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage report recipients",
	Long: `Manage the named report recipients in the configuration file.

Examples:
  log-cleaner config list recipients
  log-cleaner config add recipient --key ops --name "Ops Team" --email "ops@example.com"
  log-cleaner config set-default recipient ops
  log-cleaner config remove recipient jane`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configAddCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configRemoveCmd)
	configCmd.AddCommand(configUpdateCmd)
	configCmd.AddCommand(configSetDefaultCmd)
}

func loadedConfig() (*config.Config, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("config file not found. Run 'log-cleaner setup' first")
	}
	return cfg, nil
}

func requireRecipientType(entityType string) error {
	if entityType != "recipient" && entityType != "recipients" {
		return fmt.Errorf("unknown entity type %q. Use recipient", entityType)
	}
	return nil
}

// --- ADD command ---

var (
	addKey   string
	addName  string
	addEmail string
)

var configAddCmd = &cobra.Command{
	Use:   "add recipient",
	Short: "Add a new recipient",
	Long: `Add a named report recipient to the configuration.

Examples:
  log-cleaner config add recipient --key jane --name "Jane Doe" --email "jane@example.com"`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigAdd,
}

func init() {
	configAddCmd.Flags().StringVar(&addKey, "key", "", "Unique key for the entry (required)")
	configAddCmd.Flags().StringVar(&addName, "name", "", "Display name (required)")
	configAddCmd.Flags().StringVar(&addEmail, "email", "", "Email address (required)")
	configAddCmd.MarkFlagRequired("key")
	configAddCmd.MarkFlagRequired("name")
	configAddCmd.MarkFlagRequired("email")
}

func runConfigAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	return RunConfigAddWithDependencies(cfg, cfgFile, args[0], addKey, addName, addEmail, DefaultOutput)
}

// RunConfigAddWithDependencies runs the add command with injected dependencies
func RunConfigAddWithDependencies(cfg *config.Config, configPath, entityType, key, name, email string, out OutputWriter) error {
	if err := requireRecipientType(entityType); err != nil {
		return err
	}
	if email == "" {
		return fmt.Errorf("--email is required for recipients")
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.AddRecipient(key, name, email); err != nil {
		return err
	}
	fmt.Fprintf(out, "Added recipient %q: %s <%s>\n", key, name, email)
	return nil
}

// --- LIST command ---

var configListCmd = &cobra.Command{
	Use:   "list recipients",
	Short: "List recipients",
	Long: `List all named report recipients. The default recipient is marked with *.

Examples:
  log-cleaner config list recipients`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigList,
}

func runConfigList(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	return RunConfigListWithDependencies(cfg, cfgFile, args[0], DefaultOutput)
}

// RunConfigListWithDependencies runs the list command with injected dependencies
func RunConfigListWithDependencies(cfg *config.Config, configPath, entityType string, out OutputWriter) error {
	if err := requireRecipientType(entityType); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	recipients := mgr.ListRecipients()
	if len(recipients) == 0 {
		fmt.Fprintln(out, "No recipients configured.")
		return nil
	}

	// Sort by key for consistent output
	sort.Slice(recipients, func(i, j int) bool {
		return recipients[i].Key < recipients[j].Key
	})

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tNAME\tEMAIL\tDEFAULT")
	for _, r := range recipients {
		isDefault := ""
		if r.Default {
			isDefault = "*"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.Key, r.Name, r.Address, isDefault)
	}
	return w.Flush()
}

// --- REMOVE command ---

var configRemoveCmd = &cobra.Command{
	Use:   "remove recipient <key>",
	Short: "Remove a recipient",
	Long: `Remove a named report recipient from the configuration.

Examples:
  log-cleaner config remove recipient jane`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigRemove,
}

func runConfigRemove(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	return RunConfigRemoveWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigRemoveWithDependencies runs the remove command with injected dependencies
func RunConfigRemoveWithDependencies(cfg *config.Config, configPath, entityType, key string, out OutputWriter) error {
	if err := requireRecipientType(entityType); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.RemoveRecipient(key); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed recipient %q\n", key)
	return nil
}

// --- UPDATE command ---

var (
	updateName  string
	updateEmail string
)

var configUpdateCmd = &cobra.Command{
	Use:   "update recipient <key>",
	Short: "Update a recipient",
	Long: `Update an existing report recipient in the configuration.

Examples:
  log-cleaner config update recipient jane --email "jane.new@example.com"
  log-cleaner config update recipient ops --name "Operations"`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigUpdate,
}

func init() {
	configUpdateCmd.Flags().StringVar(&updateName, "name", "", "New display name")
	configUpdateCmd.Flags().StringVar(&updateEmail, "email", "", "New email address")
}

func runConfigUpdate(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}

	if updateName == "" && updateEmail == "" {
		return fmt.Errorf("at least one of --name or --email is required")
	}

	return RunConfigUpdateWithDependencies(cfg, cfgFile, args[0], args[1], updateName, updateEmail, DefaultOutput)
}

// RunConfigUpdateWithDependencies runs the update command with injected dependencies
func RunConfigUpdateWithDependencies(cfg *config.Config, configPath, entityType, key, name, email string, out OutputWriter) error {
	if err := requireRecipientType(entityType); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.UpdateRecipient(key, name, email); err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated recipient %q\n", key)
	return nil
}

// --- SET-DEFAULT command ---

var configSetDefaultCmd = &cobra.Command{
	Use:   "set-default recipient <key>",
	Short: "Choose the recipient used when --to is omitted",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSetDefault,
}

func runConfigSetDefault(cmd *cobra.Command, args []string) error {
	cfg, err := loadedConfig()
	if err != nil {
		return err
	}
	return RunConfigSetDefaultWithDependencies(cfg, cfgFile, args[0], args[1], DefaultOutput)
}

// RunConfigSetDefaultWithDependencies runs the set-default command with injected dependencies
func RunConfigSetDefaultWithDependencies(cfg *config.Config, configPath, entityType, key string, out OutputWriter) error {
	if err := requireRecipientType(entityType); err != nil {
		return err
	}

	mgr := config.NewConfigManager(cfg, configPath)
	if err := mgr.SetDefaultRecipient(key); err != nil {
		return err
	}
	fmt.Fprintf(out, "Default recipient is now %q\n", key)
	return nil
}
