// Package config loads duplifolder settings using Viper.
//
// The settings file is config.yaml, looked up in the current directory and
// then in $DUPLIFOLDER_CONFIG_DIR or $XDG_CONFIG_HOME/duplifolder:
//
//	backup_root: ~/Desktop/Backups   # default backups go here
//	ignore_mode: flat                # or gitignore
//	state_file: ""                   # empty uses $XDG_STATE_HOME/duplifolder/state.json
//
// Every key can be overridden from the environment with the DUPLIFOLDER_
// prefix, for example DUPLIFOLDER_IGNORE_MODE=gitignore.
//
// Call [Init] once, then [Load]:
//
//	config.Init()
//	cfg, err := config.Load("")
//	if err != nil {
//	    return err
//	}
//	root, err := cfg.DefaultRoot()
package config
