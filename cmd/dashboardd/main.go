package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/daemon"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/events"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/fileio"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/logging"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/model"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/notify"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/runner"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/scheduler"
	"github.com/Aecenas/Personal-Data-Dashboard-sub000/internal/store"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runDaemon(os.Args[2:])
	case "refresh":
		runRefresh(os.Args[2:])
	case "validate-script":
		runValidateScript(os.Args[2:])
	case "state":
		runState(os.Args[2:])
	case "version":
		fmt.Printf("dashboardd %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`dashboardd - personal dashboard daemon

usage: dashboardd <command> [options]

commands:
  run              start the daemon (refresh scheduling, state watching)
  refresh          run a one-shot manual refresh of all cards
  validate-script  check a card script and resolve its interpreter
  state            print a summary of the dashboard state
  version          print version`)
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.yaml"
	}
	return filepath.Join(home, ".dashboard", "config.yaml")
}

// loadConfig reads the config file, falling back to defaults when absent.
func loadConfig(path string) (model.Config, error) {
	cfg := model.DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if cfg.Dashboard.StatePath == "" {
			cfg.Dashboard.StatePath = filepath.Join(filepath.Dir(path), "state.yaml")
		}
		return cfg, nil
	}
	if err := fileio.ReadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Dashboard.StatePath == "" {
		cfg.Dashboard.StatePath = filepath.Join(filepath.Dir(path), "state.yaml")
	}
	return cfg, nil
}

func runDaemon(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	noNotify := fs.Bool("no-notify", false, "disable desktop notifications")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Output: cfg.Logging.Output})

	var notifier notify.Notifier = notify.Desktop{}
	if *noNotify {
		notifier = notify.Nop{}
	}

	d, err := daemon.New(cfg, notifier, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init daemon: %v\n", err)
		os.Exit(1)
	}
	if err := d.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "daemon: %v\n", err)
		os.Exit(1)
	}
}

func runRefresh(args []string) {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Output: cfg.Logging.Output})

	initial, err := store.Load(cfg.Dashboard.StatePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load state: %v\n", err)
		os.Exit(1)
	}
	st := store.New(initial, events.NewBus(100), logger)
	sched := scheduler.New(st, runner.NewPythonRunner(), notify.Nop{}, logger)

	queued := sched.RefreshAll(context.Background(), store.RefreshManual)
	sched.Wait()
	if err := st.Save(cfg.Dashboard.StatePath); err != nil {
		fmt.Fprintf(os.Stderr, "save state: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("refreshed %d cards\n", queued)
}

func runValidateScript(args []string) {
	fs := flag.NewFlagSet("validate-script", flag.ExitOnError)
	pythonPath := fs.String("python", "", "python interpreter override")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: dashboardd validate-script [--python path] <script.py>")
		os.Exit(1)
	}

	r := runner.NewPythonRunner()
	valid, message, resolved := r.Validate(context.Background(), fs.Arg(0), *pythonPath)
	if !valid {
		fmt.Fprintf(os.Stderr, "invalid: %s\n", message)
		os.Exit(1)
	}
	fmt.Printf("ok: %s (interpreter: %s)\n", message, resolved)
}

func runState(args []string) {
	fs := flag.NewFlagSet("state", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath(), "config file path")
	fs.Parse(args)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := logging.Nop()

	initial, err := store.Load(cfg.Dashboard.StatePath, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load state: %v\n", err)
		os.Exit(1)
	}
	st := store.New(initial, events.NewBus(0), logger)
	summary := st.Summarize()

	fmt.Printf("columns: %d  concurrency: %d  history: %d\n",
		summary.Columns, summary.ConcurrencyLimit, summary.HistoryLimit)
	fmt.Printf("cards: %d  executions: %d (%d failed)\n",
		summary.CardCount, summary.Executions, summary.Failures)
	for _, g := range summary.Groups {
		fmt.Printf("  %-20s %d cards\n", g, summary.CardsByGroup[g])
	}
}
