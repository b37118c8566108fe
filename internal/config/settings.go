package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// KitSettingKeys lists the settings understood by the engagement kit.
// Keys are matched case-insensitively in the settings file and can be
// overridden by KIT_<KEY> environment variables.
var KitSettingKeys = []string{
	"eventApiKey",
	"log_custom_events",
	"log_user_events",
	"log_commerce_events",
	"log_screen_view_events",
	"batch_interval",
	"in_app_enable",
	"in_app_javascript_enable",
	"in_app_manual_mode_enable",
	"notification_channel_id",
	"notification_channel_name",
	"notification_channel_description",
	"product_page",
	"cart_page",
	"promo_page",
}

// LoadKitSettings reads the kit settings file (yaml, json or toml, chosen by
// extension) into a flat map keyed by the canonical setting names. A missing
// file is not an error; environment overrides still apply.
func LoadKitSettings(path string) (map[string]string, error) {
	v := viper.New()
	v.SetEnvPrefix("KIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("reading kit settings: %w", err)
			}
		}
	}

	settings := make(map[string]string, len(KitSettingKeys))
	for _, key := range KitSettingKeys {
		if !v.IsSet(key) {
			continue
		}
		settings[key] = v.GetString(key)
	}
	return settings, nil
}
