package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"memfs/internal/config"
	"memfs/internal/fs"
	memfuse "memfs/internal/fuse"
	"memfs/internal/logging"
)

var logger = logging.GetLogger("main")

func main() {
	mountPoint := flag.String("mount", "", "Mount point for the in-memory filesystem")
	configFile := flag.String("config", "", "Config file path (optional)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	if *verbose {
		logging.SetVerbose()
	}

	logger.Info("Starting memfsd...")

	if *mountPoint == "" {
		logger.Error("Mount point is required")
		os.Exit(1)
	}
	cleanMount := filepath.Clean(*mountPoint)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.WithError(err).Error("Failed to load config")
		os.Exit(1)
	}

	logger.Debug("Creating namespace session...")
	sess := fs.New(cfg.FSLimits())
	defer sess.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fsys := memfuse.New(sess, cfg.Mount.FSName)
	if err := fsys.Mount(cleanMount, cfg.Mount.AllowOther); err != nil {
		logger.WithError(err).Error("Mount failed")
		os.Exit(1)
	}

	logger.Info("Filesystem mounted and ready")

	sig := <-sigChan
	logger.WithField("signal", sig.String()).Info("Shutting down")
	if err := fsys.Unmount(cleanMount); err != nil {
		logger.WithError(err).Error("Unmount error")
		os.Exit(1)
	}
	logger.Info("Clean shutdown complete")
}
