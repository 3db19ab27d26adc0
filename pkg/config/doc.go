/*
Package config manages operator-settable configuration for the CLI.

Configuration lives as YAML at <data-dir>/config.yaml (default
~/.priority-living/config.yaml). Every field can be overridden by a
PL_* environment variable; an optional <data-dir>/.env file is loaded
first so overrides can be kept next to the data.

Precedence: environment > config file > built-in defaults.

	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	cfg.BridgeKey = "pb_xxx"
	if err := cfg.Save(); err != nil {
		return err
	}

Set and Get address fields by their YAML key, which is what backs the
`pl config set` and `pl config get` commands.

DefaultBackendURL and DefaultAnonKey are variables so release builds
can bake in real values with -ldflags -X.
*/
package config
