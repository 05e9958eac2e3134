// Package config handles loading and parsing the maitre configuration file.
//
// # Overview
//
// This package reads a small TOML file to discover the platform admin API
// endpoint, the token file location, and the image processing settings.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/maitre/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/maitre/config.toml
//   - API base URL: http://127.0.0.1:4000
//   - Token file: ~/.config/maitre/token
//   - Page size: 10
//   - Image max width: 720 pixels
//   - Image quality: 0.65
//
// # TOML Format
//
// Example config.toml:
//
//	api_base_url = "https://api.example.com"
//	token_file = "~/.config/maitre/token"
//	page_size = 15
//	image_max_width = 720
//	image_quality = 0.65
//
// All fields are optional. Tilde expansion is performed on the token file
// path automatically.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//
// Missing config files are NOT an error - defaults are used instead, so the
// console works out-of-the-box against a local backend.
package config
