package kit

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Setting keys accepted by the kit.
const (
	SettingEventAPIKey             = "eventApiKey"
	SettingLogCustomEvents         = "log_custom_events"
	SettingLogUserEvents           = "log_user_events"
	SettingLogCommerceEvents       = "log_commerce_events"
	SettingLogScreenViewEvents     = "log_screen_view_events"
	SettingBatchInterval           = "batch_interval"
	SettingInAppEnable             = "in_app_enable"
	SettingInAppJavaScriptEnable   = "in_app_javascript_enable"
	SettingInAppManualModeEnable   = "in_app_manual_mode_enable"
	SettingNotificationChannelID   = "notification_channel_id"
	SettingNotificationChannelName = "notification_channel_name"
	SettingNotificationChannelDesc = "notification_channel_description"
	SettingProductPage             = "product_page"
	SettingCartPage                = "cart_page"
	SettingPromoPage               = "promo_page"
)

// ErrMissingAPIKey is returned when the settings carry no event API key.
var ErrMissingAPIKey = errors.New("kit requires a valid API key")

// Settings is the parsed kit configuration.
type Settings struct {
	EventAPIKey string `json:"-"`

	LogCustomEvents     bool `json:"log_custom_events"`
	LogUserEvents       bool `json:"log_user_events"`
	LogCommerceEvents   bool `json:"log_commerce_events"`
	LogScreenViewEvents bool `json:"log_screen_view_events"`

	// BatchInterval is in milliseconds. -1 means unset or invalid and
	// disables batching.
	BatchInterval int64 `json:"batch_interval"`

	InAppEnabled           bool `json:"in_app_enable"`
	InAppJavaScriptEnabled bool `json:"in_app_javascript_enable"`
	InAppManualModeEnabled bool `json:"in_app_manual_mode_enable"`

	NotificationChannelID          string `json:"notification_channel_id,omitempty"`
	NotificationChannelName        string `json:"notification_channel_name,omitempty"`
	NotificationChannelDescription string `json:"notification_channel_description,omitempty"`

	ProductPage string `json:"product_page,omitempty"`
	CartPage    string `json:"cart_page,omitempty"`
	PromoPage   string `json:"promo_page,omitempty"`
}

// ParseSettings converts the raw settings map into Settings.
func ParseSettings(raw map[string]string) (Settings, error) {
	apiKey := strings.TrimSpace(raw[SettingEventAPIKey])
	if apiKey == "" {
		return Settings{}, ErrMissingAPIKey
	}

	return Settings{
		EventAPIKey: apiKey,

		LogCustomEvents:     boolSetting(raw, SettingLogCustomEvents, false),
		LogUserEvents:       boolSetting(raw, SettingLogUserEvents, true),
		LogCommerceEvents:   boolSetting(raw, SettingLogCommerceEvents, false),
		LogScreenViewEvents: boolSetting(raw, SettingLogScreenViewEvents, false),

		BatchInterval: digitsSetting(raw, SettingBatchInterval),

		InAppEnabled:           boolSetting(raw, SettingInAppEnable, false),
		InAppJavaScriptEnabled: boolSetting(raw, SettingInAppJavaScriptEnable, false),
		InAppManualModeEnabled: boolSetting(raw, SettingInAppManualModeEnable, false),

		NotificationChannelID:          raw[SettingNotificationChannelID],
		NotificationChannelName:        raw[SettingNotificationChannelName],
		NotificationChannelDescription: raw[SettingNotificationChannelDesc],

		ProductPage: raw[SettingProductPage],
		CartPage:    raw[SettingCartPage],
		PromoPage:   raw[SettingPromoPage],
	}, nil
}

// BatchWindow returns the batching interval, or zero when batching is off.
func (s Settings) BatchWindow() time.Duration {
	if s.BatchInterval <= 0 {
		return 0
	}
	return time.Duration(s.BatchInterval) * time.Millisecond
}

func boolSetting(raw map[string]string, key string, def bool) bool {
	value, ok := raw[key]
	if !ok {
		return def
	}
	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return def
	}
	return parsed
}

// digitsSetting accepts only a non-empty run of ASCII digits.
func digitsSetting(raw map[string]string, key string) int64 {
	value := raw[key]
	if value == "" {
		return -1
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return -1
		}
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return -1
	}
	return n
}
