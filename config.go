package xsrfclient

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	URLConfigKey      = "url"
	UsernameConfigKey = "username"
	PasswordConfigKey = "password"
	DebugConfigKey    = "debug"
	LogDirConfigKey   = "log.dir"
	OnceConfigKey     = "once"

	DefaultURL      = "http://localhost:8080/api/resource"
	DefaultUsername = "user"
	DefaultPassword = "password"

	configName = "xsrfclientrc"
	envPrefix  = "XSRFCLIENT"
)

type Config struct {
	URL      string
	Username string
	Password string
	Debug    bool
	LogDir   string
	Once     bool
}

func initViper() {
	viper.SetConfigName(configName)
	viper.SetConfigType("json")
	if userHomeDir, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(userHomeDir)
	}

	viper.SetDefault(URLConfigKey, DefaultURL)
	viper.SetDefault(UsernameConfigKey, DefaultUsername)
	viper.SetDefault(PasswordConfigKey, DefaultPassword)

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
}

func bindFlags(flags *pflag.FlagSet) error {
	flags.String(URLConfigKey, DefaultURL, "resource url")
	flags.String(UsernameConfigKey, DefaultUsername, "basic auth username")
	flags.String(PasswordConfigKey, DefaultPassword, "basic auth password")
	flags.Bool(DebugConfigKey, false, "enable debug logging")
	flags.String("log-dir", "", "also write rotated json logs into this directory")
	flags.Bool(OnceConfigKey, false, "exit after the requests instead of idling")

	for key, name := range map[string]string{
		URLConfigKey:      URLConfigKey,
		UsernameConfigKey: UsernameConfigKey,
		PasswordConfigKey: PasswordConfigKey,
		DebugConfigKey:    DebugConfigKey,
		LogDirConfigKey:   "log-dir",
		OnceConfigKey:     OnceConfigKey,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(name)); err != nil {
			return errors.Wrapf(err, "bind flag %s", name)
		}
	}
	return nil
}

// readConfig reads the config file if there is one. A missing file is fine.
func readConfig() error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "read config")
		}
	}
	return nil
}

func LoadConfig() (Config, error) {
	if err := readConfig(); err != nil {
		return Config{}, err
	}
	return configFrom(viper.GetViper()), nil
}

func configFrom(v *viper.Viper) Config {
	return Config{
		URL:      strings.TrimRight(CompleteProtocol(v.GetString(URLConfigKey)), "/"),
		Username: v.GetString(UsernameConfigKey),
		Password: v.GetString(PasswordConfigKey),
		Debug:    v.GetBool(DebugConfigKey),
		LogDir:   v.GetString(LogDirConfigKey),
		Once:     v.GetBool(OnceConfigKey),
	}
}
