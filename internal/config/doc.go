// Package config provides configuration management for the ionx CLI.
//
// This package handles loading, saving, and validating the tool's own
// configuration file. Project files (ionic.project, .bowerrc) are handled by
// the project package instead.
//
// # Configuration File
//
// The default location is ~/.config/ionx/config.yaml; a config.yaml in the
// current directory takes precedence. Every key can be overridden from the
// environment with the IONX_ prefix (IONX_CORDOVA_COMMAND, IONX_SERVE_PORT).
//
//	version: 1
//	bower:
//	  command: bower
//	cordova:
//	  command: cordova
//	  default_plugins:
//	    - cordova-plugin-device
//	serve:
//	  address: ""
//	  platform_address: ""
//	  port: 8100
//	  livereload_port: 35729
//
// # Loading Configuration
//
//	config.Init()
//	cfg, err := config.Load("")
//
// # Validation
//
// [SaveTo] validates before writing. [Validate] can be called directly:
//
//	for _, e := range config.Validate(cfg) {
//	    fmt.Println(e)
//	}
package config
