// Package config provides configuration management for nftposter.
//
// This package handles:
//   - Loading settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to the font set, HTTP client and generator configs
//
// # Loading from File
//
//	settings, err := config.Load("nftposter.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// YAML files are read with go.uber.org/config and expand environment
// variables, so secrets can stay out of the file:
//
//	openai_key: ${OPENAI_KEY}
//	output_dir: ${POSTER_DIR:nft_images}
//	font_family: arial
//
// The OPENAI_KEY environment variable always wins over the file.
//
// # Saving Settings
//
//	settings.OutputDir = "/srv/posters"
//	err := settings.Save("/path/to/config.json")
//
// Save never writes the API key.
package config
