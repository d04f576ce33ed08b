package main

import "errors"

type Config struct {
	Inputs []string

	// Table forces the table layout even when stdout is not a terminal.
	Table bool
	// Quiet suppresses per-file lines; only failures and the summary are printed.
	Quiet bool
}

func (c Config) Validate() error {
	if len(c.Inputs) == 0 {
		return errors.New("missing WRAPPER_FILE arguments")
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
