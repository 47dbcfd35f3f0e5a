package main

import (
	"errors"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

const defaultListenAddr = ":8080"

// flags defines the CLI flags for wsrelay. Each is sourced from, in
// priority order: an explicit CLI flag, an environment variable, then the
// TOML config file at configFilePath.
func flags(configFilePath altsrc.StringSourcer) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "listen",
			Usage: "address to listen on for incoming WebSocket connections",
			Value: defaultListenAddr,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRELAY_LISTEN"),
				toml.TOML("server.listen", configFilePath),
			),
		},
		&cli.BoolFlag{
			Name:  "pretty-log",
			Usage: "human-readable console logging instead of JSON",
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRELAY_PRETTY_LOG"),
				toml.TOML("server.pretty_log", configFilePath),
			),
		},
		&cli.IntFlag{
			Name:  "read-buffer-size",
			Usage: "per-connection read buffer size in bytes",
			Value: 4096,
			Sources: cli.NewValueSourceChain(
				cli.EnvVar("WSRELAY_READ_BUFFER_SIZE"),
				toml.TOML("server.read_buffer_size", configFilePath),
			),
			Validator: validatePositive,
		},
	}
}

func validatePositive(n int) error {
	if n <= 0 {
		return errors.New("must be a positive number of bytes")
	}
	return nil
}
