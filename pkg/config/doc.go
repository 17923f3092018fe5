// Package config provides configuration management for the certificate
// generator.
//
// Configuration lives in four JSON files inside the config directory
// (CONFIG_DIR, default "config"):
//   - smtp_config.json: SMTP server, port and sender credentials
//   - email_config.json: subject, HTML body template and send throttle
//   - debug_mode.json: debug flag; debug runs render certificates but
//     never touch the network
//   - content_config.json: certificate layout (background image, font,
//     text position, orientation, color and long/split-name overrides)
//
// A missing file or invalid JSON is a fatal error naming the file. The
// debug flag and text color are parsed once at load time into typed
// values.
package config
