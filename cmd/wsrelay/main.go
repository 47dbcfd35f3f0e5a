// Command wsrelay is a ready-to-run WebSocket fan-out broker: every
// connected client's text messages are broadcast to every connected
// client, the sender included. It exists to give the wsconn/wsproto/internal/broker
// packages a concrete, configurable binary to run, the way a production
// service would wire them up, rather than leaving that wiring to a
// throwaway example main.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli/v3"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/coregx/wsrelay/internal/broker"
	"github.com/coregx/wsrelay/wsconn"
	"github.com/coregx/wsrelay/wsserver"
)

func main() {
	cmd := &cli.Command{
		Name:   "wsrelay",
		Usage:  "a WebSocket fan-out broker",
		Flags:  flags(configFile()),
		Action: run,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	initLog(cmd.Bool("pretty-log"))

	srv, err := wsserver.Bind(cmd.String("listen"))
	if err != nil {
		return fmt.Errorf("bind listener: %w", err)
	}
	log.Info().Str("addr", srv.Addr().String()).Msg("wsrelay listening")

	b := broker.New(log.Logger)
	go b.Run()
	defer b.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		_ = srv.Close()
	}()

	bufSize := int(cmd.Int("read-buffer-size"))
	for conn := range srv.Incoming() {
		go handleConn(conn, b, bufSize)
	}
	return nil
}

// handleConn completes the handshake for one accepted TCP connection and
// serves it until it closes, relaying its messages through the broker.
func handleConn(c net.Conn, b *broker.Broker, bufSize int) {
	conn, req, err := wsconn.AcceptSize(c, bufSize)
	if err != nil {
		log.Warn().Err(err).Msg("handshake failed")
		_ = c.Close()
		return
	}

	hook := &relayHook{conn: conn, broker: b, uri: req.URI}
	if err := conn.Serve(hook); err != nil {
		log.Warn().Err(err).Str("uri", req.URI).Msg("connection ended with error")
	}
}

// configFile returns the path to wsrelay's TOML configuration file,
// creating its parent directory if necessary.
func configFile() altsrc.StringSourcer {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	dir = filepath.Join(dir, "wsrelay")
	_ = os.MkdirAll(dir, 0o755)
	return altsrc.StringSourcer(filepath.Join(dir, "config.toml"))
}

// initLog configures zerolog's global logger: a human-readable console
// writer in development, structured JSON otherwise.
func initLog(pretty bool) {
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}
