// Command cannode runs a single CAN Controller Node: it bridges an
// NMEA2000/J1939 CAN bus to the Master Core supervisory system,
// decoding inbound telemetry and dispatching outbound commands.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nmeactl/can-controller-node/internal/config"
	"github.com/nmeactl/can-controller-node/internal/daemon"
	"github.com/nmeactl/can-controller-node/internal/logging"
	"github.com/nmeactl/can-controller-node/internal/node"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitOK             = 0
	exitConfigError    = 1
	exitDaemonizeError = 2
	exitStartError     = 3
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "config.json", "path to the node's configuration file")
	runAsDaemon := flag.Bool("daemon", false, "detach into the background after start-up")
	pidFile := flag.String("pidfile", "", "pidfile path when running with -daemon (default "+daemon.DefaultPIDFile+")")
	nodeName := flag.String("name", "can-controller-node", "this node's identifier, used as the message source field")
	flag.Parse()

	if *runAsDaemon {
		continueRunning, err := daemon.Daemonize(*pidFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannode: failed to daemonize: %v\n", err)
			return exitDaemonizeError
		}
		if !continueRunning {
			return exitOK
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannode: failed to load config: %v\n", err)
		return exitConfigError
	}

	logger, err := logging.New(logging.Config{
		Level:      cfg.LogLevel,
		LogDir:     cfg.LogDir,
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 28,
		Compress:   true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "cannode: failed to set up logging: %v\n", err)
		return exitStartError
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	n, err := node.New(ctx, cfg, logger, *nodeName, node.Deps{})
	if err != nil {
		logger.Error("failed to start node", zap.Error(err))
		return exitStartError
	}

	logger.Info("CAN controller node starting",
		zap.String("name", *nodeName),
		zap.String("can_interface", cfg.CANInterface),
		zap.Int("can_bitrate", cfg.CANBitrate))

	if err := n.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("node stopped with error", zap.Error(err))
		return exitStartError
	}

	logger.Info("CAN controller node stopped")
	return exitOK
}
