package services

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"certgen/pkg/config"
	"certgen/pkg/models"
)

// certificateRenderer renders one certificate per participant
type certificateRenderer interface {
	RenderCertificate(participant *models.Participant) (string, error)
}

// certificateNotifier delivers one certificate per participant
type certificateNotifier interface {
	SendCertificate(participant *models.Participant, certificatePath string) error
	Close() error
}

// AppService drives the certificate pipeline: stream participants, render
// each certificate, then email it unless debug mode is on. Render and send
// failures are recorded per participant and never abort the run.
type AppService struct {
	participantsFile string
	debug            bool
	renderer         certificateRenderer
	notifier         certificateNotifier
}

// NewAppService creates a new AppService
func NewAppService(cfg *config.Config, renderer certificateRenderer, notifier certificateNotifier) *AppService {
	return &AppService{
		participantsFile: cfg.ParticipantsFile,
		debug:            cfg.Debug,
		renderer:         renderer,
		notifier:         notifier,
	}
}

// Run processes every participant and returns the run summary. The returned
// error is non-nil only for fatal failures (missing participant source).
func (s *AppService) Run() (*models.Summary, error) {
	log.WithField("source", s.participantsFile).Info("Starting certificate run")
	startTime := time.Now()

	source, err := NewParticipantSource(s.participantsFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := source.Close(); err != nil {
			log.WithError(err).Error("Failed to close participant source")
		}
		if err := s.notifier.Close(); err != nil {
			log.WithError(err).Error("Failed to close notifier")
		}
	}()

	summary := &models.Summary{}
	processed := 0

	for {
		participant, line, err := source.Next()
		if err == io.EOF {
			break
		}
		processed++
		log.WithFields(log.Fields{
			"processed":   processed,
			"participant": participant.FullName(),
		}).Info("Progress")

		certificatePath, err := s.renderer.RenderCertificate(participant)
		if err != nil {
			log.WithError(err).WithFields(log.Fields{
				"participant": participant.FullName(),
				"line":        line,
			}).Error("Failed to render certificate")
			summary.AddFailure(participant.FullName(), line, err)
			continue
		}
		summary.Rendered++

		if s.debug {
			continue
		}

		if err := s.notifier.SendCertificate(participant, certificatePath); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"participant": participant.FullName(),
				"email":       participant.Email,
				"line":        line,
			}).Error("Failed to send certificate email")
			summary.AddFailure(participant.FullName(), line, err)
			continue
		}
		summary.Sent++
	}

	summary.Skipped = len(source.SkippedRows())

	if processed == 0 && summary.Skipped == 0 {
		log.WithField("source", s.participantsFile).Warn("No participants found")
	}

	log.WithFields(log.Fields{
		"rendered": summary.Rendered,
		"sent":     summary.Sent,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed(),
		"duration": time.Since(startTime),
	}).Info("Certificate run completed")

	return summary, nil
}
