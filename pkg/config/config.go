package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	apperrors "certgen/pkg/errors"
)

const (
	smtpConfigFile    = "smtp_config.json"
	emailConfigFile   = "email_config.json"
	debugConfigFile   = "debug_mode.json"
	contentConfigFile = "content_config.json"
)

// FlexFloat is a float64 that also accepts a quoted numeric JSON value.
// Config files written by hand or by the layout editor mix the two forms.
// An empty or non-numeric value decodes to zero so optional overrides can
// fall back to their defaults.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(value)
	return nil
}

// SMTPConfig holds the SMTP server connection settings
type SMTPConfig struct {
	Server         string `json:"smtp_server" validate:"required"`
	Port           int    `json:"smtp_port" validate:"required,min=1,max=65535"`
	SenderAddress  string `json:"email_sender" validate:"required,email"`
	SenderPassword string `json:"email_password" validate:"required"`
}

// EmailConfig holds the email subject and HTML body template
type EmailConfig struct {
	Subject string `json:"subject" validate:"required"`
	// Body is an HTML template with a single {name} placeholder
	Body string `json:"body" validate:"required"`
	// ThrottlePerMinute caps how many emails are sent per minute; zero disables throttling
	ThrottlePerMinute int `json:"throttle_per_minute"`
}

// RGB is a text color parsed once from a #RRGGBB config value
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ContentConfig holds the certificate layout settings
type ContentConfig struct {
	BackgroundImage string    `json:"background_image" validate:"required"`
	FontPath        string    `json:"font_path" validate:"required"`
	FontSize        FlexFloat `json:"font_size" validate:"required"`
	TextY           FlexFloat `json:"text_y" validate:"required"`
	Orientation     string    `json:"orientation" validate:"required,oneof=L P"`
	TextColor       string    `json:"text_color"`

	// Long names switch to a smaller font and an adjusted baseline
	LongNameThreshold FlexFloat `json:"long_name_threshold"`
	LongNameFontSize  FlexFloat `json:"long_name_font_size"`
	LongNameTextY     FlexFloat `json:"long_name_text_y"`

	// Very long names are split onto two lines at the space nearest the middle
	SplitNameThreshold FlexFloat `json:"split_name_threshold"`
	SplitNameLineGap   FlexFloat `json:"split_name_line_gap"`
	SplitNameFontSize  FlexFloat `json:"split_name_font_size"`
	SplitNameTextY     FlexFloat `json:"split_name_text_y"`
}

type debugConfig struct {
	DebugMode json.RawMessage `json:"debug_mode"`
}

// Config holds all application configuration
type Config struct {
	SMTP    SMTPConfig
	Email   EmailConfig
	Content ContentConfig

	// Debug suppresses all email sending when true
	Debug bool

	ConfigDir        string
	ParticipantsFile string
	OutputDir        string

	// Color is TextColor parsed once at load time; black when unset
	Color RGB
}

// LoadConfig loads configuration from the JSON files in the config directory
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ConfigDir:        getEnvOrDefault("CONFIG_DIR", "config"),
		ParticipantsFile: getEnvOrDefault("PARTICIPANTS_FILE", "participants.csv"),
		OutputDir:        getEnvOrDefault("OUTPUT_DIR", "certificates"),
	}

	if err := loadJSONFile(filepath.Join(cfg.ConfigDir, smtpConfigFile), &cfg.SMTP); err != nil {
		return nil, err
	}
	if err := loadJSONFile(filepath.Join(cfg.ConfigDir, emailConfigFile), &cfg.Email); err != nil {
		return nil, err
	}
	if err := loadJSONFile(filepath.Join(cfg.ConfigDir, contentConfigFile), &cfg.Content); err != nil {
		return nil, err
	}

	var debug debugConfig
	debugPath := filepath.Join(cfg.ConfigDir, debugConfigFile)
	if err := loadJSONFile(debugPath, &debug); err != nil {
		return nil, err
	}

	var err error
	if cfg.Debug, err = resolveDebugMode(debug.DebugMode); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrConfigMalformed, debugPath, err)
	}

	if cfg.Color, err = parseHexColor(cfg.Content.TextColor); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperrors.ErrConfigMalformed,
			filepath.Join(cfg.ConfigDir, contentConfigFile), err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Content.BackgroundImage == "" {
		return fmt.Errorf("%w: background_image is required", apperrors.ErrConfigMalformed)
	}
	if c.Content.FontPath == "" {
		return fmt.Errorf("%w: font_path is required", apperrors.ErrConfigMalformed)
	}
	if c.Content.FontSize <= 0 {
		return fmt.Errorf("%w: font_size must be a positive number", apperrors.ErrConfigMalformed)
	}
	if c.Content.TextY <= 0 {
		return fmt.Errorf("%w: text_y must be a positive number", apperrors.ErrConfigMalformed)
	}
	if c.Content.Orientation != "L" && c.Content.Orientation != "P" {
		return fmt.Errorf("%w: orientation must be \"L\" or \"P\"", apperrors.ErrConfigMalformed)
	}

	// SMTP and email content only matter when sending is enabled
	if c.Debug {
		return nil
	}

	if c.SMTP.Server == "" || c.SMTP.SenderAddress == "" || c.SMTP.SenderPassword == "" {
		return fmt.Errorf("%w: smtp configuration is required", apperrors.ErrConfigMalformed)
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("%w: smtp_port must be between 1 and 65535", apperrors.ErrConfigMalformed)
	}
	if c.Email.Subject == "" {
		return fmt.Errorf("%w: email subject is required", apperrors.ErrConfigMalformed)
	}
	if !strings.Contains(c.Email.Body, "{name}") {
		return fmt.Errorf("%w: email body must contain the {name} placeholder", apperrors.ErrConfigMalformed)
	}
	return nil
}

// loadJSONFile reads one JSON config file into the target struct
func loadJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", apperrors.ErrConfigMissing, path)
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrConfigMalformed, path, err)
	}
	return nil
}

// resolveDebugMode parses the debug flag once into a typed boolean.
// "T", "Test" and "true" enable debug mode (certificates only, no email);
// "F", "Full" and "false" enable sending.
func resolveDebugMode(raw json.RawMessage) (bool, error) {
	if len(raw) == 0 {
		return false, fmt.Errorf("debug_mode is required")
	}
	value := strings.ToLower(strings.Trim(strings.TrimSpace(string(raw)), `"`))
	switch value {
	case "t", "test", "true":
		return true, nil
	case "f", "full", "false":
		return false, nil
	default:
		return false, fmt.Errorf("unsupported debug_mode value %q", value)
	}
}

// parseHexColor parses a #RRGGBB value; empty means black
func parseHexColor(value string) (RGB, error) {
	if value == "" {
		return RGB{}, nil
	}
	s := strings.TrimPrefix(value, "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("text_color must be in #RRGGBB form, got %q", value)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("text_color must be in #RRGGBB form, got %q", value)
	}
	return RGB{
		R: int(n >> 16 & 0xff),
		G: int(n >> 8 & 0xff),
		B: int(n & 0xff),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
