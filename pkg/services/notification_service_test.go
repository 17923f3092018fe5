package services

import (
	"bytes"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gomail/gomail"

	"certgen/pkg/config"
	apperrors "certgen/pkg/errors"
	"certgen/pkg/models"
)

type fakeSender struct {
	sent    []string
	closed  bool
	sendErr error
}

func (f *fakeSender) Send(from string, to []string, msg io.WriterTo) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	var buf bytes.Buffer
	if _, err := msg.WriteTo(&buf); err != nil {
		return err
	}
	f.sent = append(f.sent, buf.String())
	return nil
}

func (f *fakeSender) Close() error {
	f.closed = true
	return nil
}

func testParticipant() *models.Participant {
	return &models.Participant{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
}

func writeCertificate(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Ada_Lovelace.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatalf("writing certificate fixture: %v", err)
	}
	return path
}

func newTestNotifier(debug bool, dial func() (gomail.SendCloser, error)) *NotificationService {
	return &NotificationService{
		smtp: config.SMTPConfig{
			Server:         "smtp.example.com",
			Port:           587,
			SenderAddress:  "sender@example.com",
			SenderPassword: "secret",
		},
		email: config.EmailConfig{
			Subject: "Your certificate",
			Body:    "<p>Hello {name}</p>",
		},
		debug: debug,
		dial:  dial,
		sleep: func(time.Duration) {},
	}
}

func TestSendCertificate_DebugModeSkipsNetwork(t *testing.T) {
	dialed := false
	notifier := newTestNotifier(true, func() (gomail.SendCloser, error) {
		dialed = true
		return &fakeSender{}, nil
	})

	// The attachment does not even need to exist in debug mode
	if err := notifier.SendCertificate(testParticipant(), "does/not/exist.pdf"); err != nil {
		t.Fatalf("SendCertificate() error = %v", err)
	}
	if dialed {
		t.Error("debug mode dialed the SMTP server")
	}
}

func TestSendCertificate_AttachmentMissing(t *testing.T) {
	dialed := false
	notifier := newTestNotifier(false, func() (gomail.SendCloser, error) {
		dialed = true
		return &fakeSender{}, nil
	})

	err := notifier.SendCertificate(testParticipant(), filepath.Join(t.TempDir(), "missing.pdf"))
	if !apperrors.IsAttachmentMissing(err) {
		t.Errorf("SendCertificate() error = %v, want attachment missing", err)
	}
	if dialed {
		t.Error("dialed the SMTP server for a missing attachment")
	}
}

func TestSendCertificate_SubstitutesPlaceholder(t *testing.T) {
	sender := &fakeSender{}
	notifier := newTestNotifier(false, func() (gomail.SendCloser, error) {
		return sender, nil
	})

	if err := notifier.SendCertificate(testParticipant(), writeCertificate(t)); err != nil {
		t.Fatalf("SendCertificate() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(sender.sent))
	}

	message := sender.sent[0]
	if !strings.Contains(message, "Hello Ada") {
		t.Error("message body does not contain the substituted name")
	}
	if strings.Contains(message, "{name}") {
		t.Error("message body still contains the literal placeholder")
	}
	if !strings.Contains(message, "Ada_Lovelace.pdf") {
		t.Error("message does not reference the attached certificate")
	}
}

func TestSendCertificate_ReusesConnection(t *testing.T) {
	dials := 0
	sender := &fakeSender{}
	notifier := newTestNotifier(false, func() (gomail.SendCloser, error) {
		dials++
		return sender, nil
	})

	certificate := writeCertificate(t)
	for i := 0; i < 3; i++ {
		if err := notifier.SendCertificate(testParticipant(), certificate); err != nil {
			t.Fatalf("SendCertificate() error = %v", err)
		}
	}
	if dials != 1 {
		t.Errorf("dialed %d times, want 1", dials)
	}

	if err := notifier.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !sender.closed {
		t.Error("Close() did not close the SMTP connection")
	}
}

func TestSendCertificate_DialFailure(t *testing.T) {
	tests := []struct {
		name    string
		dialErr error
		wantErr func(error) bool
	}{
		{
			name:    "credentials rejected",
			dialErr: errors.New("535 5.7.8 authentication failed"),
			wantErr: apperrors.IsAuthFailed,
		},
		{
			name: "connection refused is a transport failure",
			dialErr: &net.OpError{
				Op:  "dial",
				Net: "tcp",
				Err: errors.New("connection refused"),
			},
			wantErr: apperrors.IsSendFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notifier := newTestNotifier(false, func() (gomail.SendCloser, error) {
				return nil, tt.dialErr
			})

			err := notifier.SendCertificate(testParticipant(), writeCertificate(t))
			if err == nil || !tt.wantErr(err) {
				t.Errorf("SendCertificate() error = %v, want matching sentinel", err)
			}
		})
	}
}

func TestSendCertificate_SendFailureDiscardsConnection(t *testing.T) {
	sender := &fakeSender{sendErr: errors.New("connection reset")}
	notifier := newTestNotifier(false, func() (gomail.SendCloser, error) {
		return sender, nil
	})

	err := notifier.SendCertificate(testParticipant(), writeCertificate(t))
	if !apperrors.IsSendFailed(err) {
		t.Errorf("SendCertificate() error = %v, want send failure", err)
	}
	if !sender.closed {
		t.Error("failed connection was not closed")
	}
	if notifier.sender != nil {
		t.Error("failed connection was not discarded")
	}
}

func TestThrottle(t *testing.T) {
	var slept time.Duration
	notifier := newTestNotifier(false, nil)
	notifier.email.ThrottlePerMinute = 60
	notifier.sleep = func(d time.Duration) { slept = d }

	// First send is never throttled
	notifier.throttle()
	if slept != 0 {
		t.Errorf("first send slept %v, want 0", slept)
	}

	notifier.lastSend = time.Now()
	notifier.throttle()
	if slept <= 0 || slept > time.Second {
		t.Errorf("throttle slept %v, want between 0 and 1s", slept)
	}
}
