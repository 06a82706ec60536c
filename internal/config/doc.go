// Package config provides configuration for the vanlog client and server.
//
// The client keeps a small YAML file with the ledger API URL and form
// defaults. The file follows OS-specific conventions for its location:
//   - Linux: $XDG_CONFIG_HOME/vanlog/config.yaml or $HOME/.config/vanlog/config.yaml
//   - macOS: $HOME/.config/vanlog/config.yaml
//   - Windows: %LOCALAPPDATA%\vanlog\config.yaml
//
// VANLOG_API_URL overrides the file's api_url. The client configuration is read
// once at process start and the URL is then handed to the submission
// controller explicitly; nothing below the command layer reads the
// environment.
//
// The server is configured from environment variables only, see LoadServer.
//
// # Usage Example
//
//	cfg, err := config.LoadClient()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ctrl := submission.New(cfg.APIURL, nil, submission.WithTimeout(cfg.Timeout()))
//
// # Thread Safety
//
// File writes are protected by a mutex and performed atomically through a
// temporary file.
package config
