package services

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-gomail/gomail"
	log "github.com/sirupsen/logrus"

	"certgen/pkg/config"
	apperrors "certgen/pkg/errors"
	"certgen/pkg/models"
)

const namePlaceholder = "{name}"

// NotificationService emails generated certificates to their recipients.
// It keeps a single authenticated SMTP connection for the whole run,
// dialed lazily on the first send.
type NotificationService struct {
	smtp  config.SMTPConfig
	email config.EmailConfig
	debug bool

	dial   func() (gomail.SendCloser, error)
	sender gomail.SendCloser

	sleep    func(time.Duration)
	lastSend time.Time
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(cfg *config.Config) *NotificationService {
	dialer := gomail.NewDialer(cfg.SMTP.Server, cfg.SMTP.Port, cfg.SMTP.SenderAddress, cfg.SMTP.SenderPassword)
	return &NotificationService{
		smtp:  cfg.SMTP,
		email: cfg.Email,
		debug: cfg.Debug,
		dial:  dialer.Dial,
		sleep: time.Sleep,
	}
}

// SendCertificate emails one certificate to its participant. In debug mode
// it returns immediately without any network activity.
func (s *NotificationService) SendCertificate(participant *models.Participant, certificatePath string) error {
	if s.debug {
		log.WithField("participant", participant.FullName()).Debug("Debug mode, skipping email")
		return nil
	}

	if _, err := os.Stat(certificatePath); err != nil {
		return fmt.Errorf("%w: %s", apperrors.ErrAttachmentMissing, certificatePath)
	}

	s.throttle()

	message := gomail.NewMessage()
	message.SetHeader("From", s.smtp.SenderAddress)
	message.SetHeader("To", participant.Email)
	message.SetHeader("Subject", s.email.Subject)
	message.SetBody("text/html", strings.ReplaceAll(s.email.Body, namePlaceholder, participant.FirstName))
	message.Attach(certificatePath)

	if s.sender == nil {
		sender, err := s.dial()
		if err != nil {
			return fmt.Errorf("%w: %s:%d: %v", s.classifyDialError(err), s.smtp.Server, s.smtp.Port, err)
		}
		s.sender = sender
	}

	if err := gomail.Send(s.sender, message); err != nil {
		// Discard the connection so the next participant gets a fresh dial
		if closeErr := s.sender.Close(); closeErr != nil {
			log.WithError(closeErr).Warn("Failed to close SMTP connection after send error")
		}
		s.sender = nil
		return apperrors.NewServiceError("notifier", "SendCertificate",
			fmt.Errorf("%w: %v", apperrors.ErrSendFailed, err)).
			WithContext("email", participant.Email)
	}

	s.lastSend = time.Now()
	log.WithFields(log.Fields{
		"participant": participant.FullName(),
		"email":       participant.Email,
	}).Info("Sent certificate email")

	return nil
}

// Close closes the SMTP connection if one was opened
func (s *NotificationService) Close() error {
	if s.sender == nil {
		return nil
	}
	err := s.sender.Close()
	s.sender = nil
	return err
}

// classifyDialError separates transport failures (refused connection, DNS,
// timeout) from the server rejecting the credentials
func (s *NotificationService) classifyDialError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperrors.ErrSendFailed
	}
	return apperrors.ErrAuthFailed
}

// throttle enforces the configured per-minute send rate
func (s *NotificationService) throttle() {
	if s.email.ThrottlePerMinute <= 0 || s.lastSend.IsZero() {
		return
	}
	interval := time.Minute / time.Duration(s.email.ThrottlePerMinute)
	if elapsed := time.Since(s.lastSend); elapsed < interval {
		s.sleep(interval - elapsed)
	}
}
