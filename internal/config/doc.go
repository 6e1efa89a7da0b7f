// Package config provides configuration management for the dialctl CLI.
//
// This package handles loading and validating the tool's own configuration
// file. It is distinct from the model documents the tool edits, which are
// handled by the model package.
//
// # Configuration File
//
// The default configuration file location is ~/.config/dialctl/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	tracking:
//	  report_dirs:
//	    Dialed: /mnt/tracking/Dialed
//	    Undialed: /mnt/tracking/Undialed
//	  dealtypes: [STACR, CAS, JUMBO, HE, NONQM]
//	  bucket_type: WAC
//	  error_window: 6M
//	dial:
//	  flat_months: 48
//	  ramp_months: 23
//	generate:
//	  default_start_date: "20240101"
//	  default_dial: 1.0
//
// # Loading Configuration
//
// Call [Init] once at startup, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return fmt.Errorf("loading config: %w", err)
//	}
//
// All loaded configurations are validated automatically; [Validate] can
// also be called directly.
package config
