// Command pmcore is the thin entrypoint over internal/app: load
// configuration, serve Prometheus metrics, and, if a log path is
// given, run an OC-DECLARE discovery pass over it and report a
// summary. CLI ergonomics beyond this are out of scope.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"ssw-process-mining/internal/app"
	"ssw-process-mining/pkg/ocel"
)

func main() {
	var configFile, logPath string
	flag.StringVar(&configFile, "config", "", "Path to configuration file")
	flag.StringVar(&logPath, "log", "", "Path to a JSON-encoded OCEL log to run OC-DECLARE discovery over")
	flag.Parse()

	if configFile == "" {
		if envConfigFile := os.Getenv("PM_CONFIG_FILE"); envConfigFile != "" {
			configFile = envConfigFile
		} else {
			configFile = "/etc/pmcore/config.yaml"
		}
	}
	if logPath == "" {
		logPath = os.Getenv("PM_LOG_FILE")
	}

	application, err := app.New(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start application: %v\n", err)
		os.Exit(1)
	}

	if logPath != "" {
		if err := runDiscovery(application, logPath); err != nil {
			fmt.Fprintf(os.Stderr, "discovery failed: %v\n", err)
			application.Stop()
			os.Exit(1)
		}
		application.Stop()
		return
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "application error: %v\n", err)
		os.Exit(1)
	}
}

func runDiscovery(application *app.App, logPath string) error {
	f, err := os.Open(logPath)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var o ocel.OCEL
	if err := json.NewDecoder(f).Decode(&o); err != nil {
		return fmt.Errorf("decode OCEL log: %w", err)
	}

	arcs, err := application.DiscoverOCDeclare(context.Background(), o)
	if err != nil {
		return fmt.Errorf("oc-declare discovery: %w", err)
	}

	fmt.Printf("discovered %d arcs over %d events, %d objects\n", len(arcs), len(o.Events), len(o.Objects))
	for _, arc := range arcs {
		fmt.Printf("  %s --%s--> %s\n", arc.From, arc.ArcType, arc.To)
	}
	return nil
}
