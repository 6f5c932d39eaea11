package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/plus3/lantern/internal/config"
	"github.com/plus3/lantern/internal/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to the title file.")
	ticks := flag.Int("ticks", 0, "Run a fixed number of ticks instead of a timed run.")
	dt := flag.Float64("dt", 1.0/60.0, "Delta time in seconds passed to each fixed tick.")
	duration := flag.Duration("duration", 0, "Override the title's run duration.")
	logLevel := flag.String("log-level", "", "Override the title's log level.")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "lantern-title: -config is required")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *ticks, *dt, *duration, *logLevel); err != nil {
		fmt.Fprintf(os.Stderr, "lantern-title: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, ticks int, dt float64, duration time.Duration, logLevel string) error {
	title, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if duration > 0 {
		title.Duration = duration
	}
	if logLevel != "" {
		title.LogLevel = logLevel
	}

	logger, err := logging.New(title.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := newStage(title, filepath.Dir(configPath), logger)
	if err != nil {
		return err
	}
	logger.Info("title loaded",
		zap.String("title", title.Name),
		zap.Int("actors", len(st.actors)),
		zap.Int("media", st.media.Len()),
	)

	report := &Report{Title: title.Name, Interval: title.TickInterval}
	start := time.Now()

	if ticks > 0 {
		report.Mode = fmt.Sprintf("%d fixed ticks (dt=%gs)", ticks, dt)
		for i := 0; i < ticks; i++ {
			st.scheduler.Once(dt)
		}
	} else {
		report.Mode = fmt.Sprintf("timed run (%s)", title.Duration)
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		ctx, cancel := context.WithTimeout(ctx, title.Duration)
		defer cancel()

		st.scheduler.Run(ctx, title.TickInterval)
	}

	report.TotalTime = time.Since(start)
	report.collect(st)

	if err := st.dispose(); err != nil {
		return fmt.Errorf("dispose: %w", err)
	}
	logger.Info("title finished",
		zap.Uint64("ticks", report.Scheduler.Ticks),
		zap.Duration("elapsed", report.TotalTime),
	)

	return report.Generate(os.Stdout)
}
