package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/dapwire/dapwire/pkg/dispatch"
	"github.com/dapwire/dapwire/pkg/transport"
)

var (
	verbosity  int
	configPath string
	echo       bool

	cfg    *config
	logger *slog.Logger
)

var cmd = &cobra.Command{
	Use:               "dapwire",
	Short:             "Serve Content-Length framed JSON wire sessions",
	PersistentPreRunE: setup,
	SilenceUsage:      true,
}

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Accept TCP connections and run one session per connection",
	RunE:  runListen,
}

var stdioCmd = &cobra.Command{
	Use:   "stdio",
	Short: "Run a single session on stdin/stdout",
	RunE:  runStdio,
}

func main() {
	// The host shell owns interrupt behavior; undo anything inherited.
	signal.Reset(os.Interrupt)

	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "how verbose to be, can use multiple")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "F", "", "config file to use")
	cmd.PersistentFlags().BoolVar(&echo, "echo", false, "send each received message back to the peer")
	listenCmd.Flags().String("addr", "", "listen address (overrides config)")
	cmd.AddCommand(listenCmd, stdioCmd)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup(cc *cobra.Command, args []string) error {
	var err error
	if configPath != "" {
		cfg, err = loadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("unable to load config %s: %w", configPath, err)
		}
	} else {
		cfg, err = findAndLoadConfig()
		if err != nil {
			return fmt.Errorf("unable to load config: %w", err)
		}
	}

	logger, err = setupLogging(cc.Name() == "stdio")
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}

// setupLogging builds the process logger. Logs go to stderr (stdout may
// carry the protocol stream) or to the configured log file. A stdio
// session without a log file logs errors only, so diagnostics cannot
// mingle with the wire.
func setupLogging(isStdioSession bool) (*slog.Logger, error) {
	level := slog.LevelWarn
	switch verbosity {
	case 0:
	case 1:
		level = slog.LevelInfo
	default: // 2+
		level = slog.LevelDebug
	}

	out := os.Stderr
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("unable to open log file: %w", err)
		}
		out = f
	} else if isStdioSession && verbosity == 0 {
		level = slog.LevelError
	}

	return slog.New(tint.NewHandler(out, &tint.Options{Level: level})), nil
}

// handle is the demo session handler: log every inbound message and, in
// echo mode, send it straight back.
func handle(sess *transport.Session, msg any) {
	if msg == nil {
		logger.Info("stream ended")
		return
	}
	logger.Info("message received", "msg", msg)
	if echo {
		if err := sess.Send(msg); err != nil {
			logger.Warn("unable to echo message", "error", err)
		}
	}
}

func runListen(cc *cobra.Command, args []string) error {
	addr := cfg.ListenAddr
	if flagAddr, _ := cc.Flags().GetString("addr"); flagAddr != "" {
		addr = flagAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &transport.Server{
		Addr:    addr,
		Handle:  handle,
		Logger:  logger,
		Options: cfg.sessionOptions(),
	}
	logger.Info("listening for sessions, Ctrl-C to stop", "addr", addr)
	return srv.ListenAndServe(ctx)
}

func runStdio(cc *cobra.Command, args []string) error {
	// No signal trapping here: a pump blocked reading stdin can only be
	// interrupted by the default signal action, which main restored.
	ctx := context.Background()

	logger.Info("single-session mode on stdin/stdout")

	sess := transport.StdioSession(cfg.sessionOptions()...)
	loop := dispatch.New(dispatch.DefaultQueueSize)

	runErr := make(chan error, 1)
	go func() {
		runErr <- sess.Run(ctx, func(msg any) {
			if msg == nil {
				loop.Stop()
				return
			}
			loop.Dispatch(func() { handle(sess, msg) })
		})
	}()

	loop.Run()
	err := <-runErr
	logger.Info("session ended, exiting")
	return err
}
