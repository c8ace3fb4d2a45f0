// Command ptg-engine reads a PlanningInput JSON from a file argument (or stdin),
// runs one planning cycle, and writes the PlanResult JSON to stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cxd309/ptg-engine/internal/config"
	"github.com/cxd309/ptg-engine/internal/engine"
)

func main() {
	configPath := flag.String("config", "", "path to planner YAML config (built-in defaults if empty)")
	logLevel := flag.String("log-level", "warn", "log level: debug, info, warn or error")
	flag.Parse()

	logger, err := newLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			logger.Fatal("loading config", zap.String("path", *configPath), zap.Error(err))
		}
	}

	var data []byte
	if flag.NArg() > 0 {
		data, err = os.ReadFile(flag.Arg(0))
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logger.Fatal("reading input", zap.Error(err))
	}

	result, err := engine.RunJSON(string(data), cfg, logger)
	if err != nil {
		logger.Fatal("planning failed", zap.Error(err))
	}

	fmt.Println(result)
}

// newLogger builds a console logger on stderr so stdout carries only the result.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}
