package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MKhiriev/convex-go/convex"
	"github.com/MKhiriev/convex-go/internal/config"
	"github.com/MKhiriev/convex-go/internal/logger"
	"github.com/MKhiriev/convex-go/remote"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("convex-demo", os.Stderr)
	cfg, err := config.GetConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	remoteClient, err := remote.NewClient(remote.Config{
		DeploymentURL:  cfg.Deployment.URL,
		RequestTimeout: cfg.Deployment.RequestTimeout,
		Logger:         log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("create remote client")
	}
	defer remoteClient.Close()

	client, err := convex.NewClient(remoteClient, convex.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Msg("create convex client")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := convex.Subscribe[[]todoItem](ctx, client, "todos:list", nil)
	defer sub.Cancel()

	program := tea.NewProgram(newModel(ctx, client, sub), tea.WithAltScreen())
	if _, err = program.Run(); err != nil {
		log.Fatal().Err(err).Msg("demo run error")
	}
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
