package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"certgen/pkg/config"
	"certgen/pkg/services"
)

func main() {
	// Setup logging
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	log.Info("Starting certificate generator")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}

	if cfg.Debug {
		log.Info("Debug mode enabled, certificates will be generated but not emailed")
	}

	// Initialize services
	renderService := services.NewRenderService(cfg)
	notificationService := services.NewNotificationService(cfg)
	appService := services.NewAppService(cfg, renderService, notificationService)

	// Run the pipeline
	summary, err := appService.Run()
	if err != nil {
		log.WithError(err).Fatal("Certificate run aborted")
	}

	// Per-participant failures are non-fatal; report them at the end
	for _, failure := range summary.Failures {
		log.WithFields(log.Fields{
			"participant": failure.Participant,
			"line":        failure.Line,
		}).Error(failure.Reason)
	}

	log.WithFields(log.Fields{
		"rendered": summary.Rendered,
		"sent":     summary.Sent,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed(),
	}).Info(summary.String())
}
