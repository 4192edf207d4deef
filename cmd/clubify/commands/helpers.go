package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/clubify-io/checkout-client/internal/credentials"
)

// credentialsFileName is the on-disk context store under ~/.clubify.
const credentialsFileName = "credentials.yml"

// configDir returns ~/.clubify, honoring the --config flag's directory when
// set.
func configDir() (string, error) {
	cfgFile := viper.GetString("config")
	if cfgFile != "" {
		return filepath.Dir(cfgFile), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}

	return filepath.Join(home, ".clubify"), nil
}

// openCredentialManager builds a manager over the file-backed context store.
func openCredentialManager() (*credentials.Manager, error) {
	dir, err := configDir()
	if err != nil {
		return nil, err
	}

	storage, err := credentials.NewFileStorage(filepath.Join(dir, credentialsFileName))
	if err != nil {
		return nil, fmt.Errorf("opening credential storage: %w", err)
	}

	manager := credentials.NewManager(storage)

	if active := viper.GetString("active_context"); active != "" {
		err = manager.SwitchContext(active)
		if err != nil {
			// A stale pointer is not fatal; the default context applies.
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return manager, nil
}

// saveActiveContext records the active context id in the config file.
func saveActiveContext(contextID string) error {
	viper.Set("active_context", contextID)

	if viper.ConfigFileUsed() != "" {
		return viper.WriteConfig()
	}

	dir, err := configDir()
	if err != nil {
		return err
	}

	return viper.WriteConfigAs(filepath.Join(dir, "config.yml"))
}

// renderStructured prints value as JSON or YAML per the --output flag and
// reports whether it handled the output.
func renderStructured(value interface{}) (bool, error) {
	switch viper.GetString("output") {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(value)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)

		return true, encoder.Encode(value)
	default:
		return false, nil
	}
}
