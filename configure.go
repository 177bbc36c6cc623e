package xsrfclient

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/c-bata/go-prompt"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(configureCmd)
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "write the xsrfclientrc config file",
	Long:  `Prompt for the resource url and basic auth credentials and save them to ~/xsrfclientrc.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := readConfig(); err != nil {
			return err
		}
		cfg := configFrom(viper.GetViper())

		url := Prompt(fmt.Sprintf("Resource url(default %s)? ", cfg.URL))
		if url == "" {
			url = cfg.URL
		}
		username := Prompt(fmt.Sprintf("Username(default %s)? ", cfg.Username))
		if username == "" {
			username = cfg.Username
		}
		password := Prompt("Password? ")
		if password == "" {
			password = cfg.Password
		}

		path, err := configPath()
		if err != nil {
			return err
		}
		if err := writeConfig(path, map[string]string{
			URLConfigKey:      strings.TrimRight(CompleteProtocol(url), "/"),
			UsernameConfigKey: username,
			PasswordConfigKey: password,
		}); err != nil {
			return err
		}
		fmt.Println("Config saved")
		return nil
	},
}

func configPath() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "find home dir")
	}
	return filepath.Join(userHomeDir, configName+".json"), nil
}

// writeConfig stores values in the json file at path, keeping the other keys
// already in it. Flag and env overrides never reach the file.
func writeConfig(path string, values map[string]string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return errors.Wrap(err, "read config")
		}
	}
	for key, value := range values {
		v.Set(key, value)
	}
	return errors.Wrap(v.WriteConfigAs(path), "save config")
}

func Prompt(label string) string {
	emptyCompleter := func(document prompt.Document) []prompt.Suggest {
		return nil
	}
	return strings.TrimSpace(prompt.Input(label, emptyCompleter))
}
