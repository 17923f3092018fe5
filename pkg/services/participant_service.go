package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "certgen/pkg/errors"
	"certgen/pkg/models"
	log "github.com/sirupsen/logrus"
)

// ParticipantSource streams participants out of the CSV file in file order.
// The stream is lazy and non-restartable; malformed rows are skipped with a
// warning and counted, they never abort the run.
type ParticipantSource struct {
	file    *os.File
	reader  *csv.Reader
	line    int
	skipped []models.Failure
	header  bool
}

// NewParticipantSource opens the CSV file for streaming
func NewParticipantSource(path string) (*ParticipantSource, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrSourceMissing, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}

	reader := csv.NewReader(file)
	// Row length is validated per record so one bad row cannot poison the stream
	reader.FieldsPerRecord = -1

	return &ParticipantSource{
		file:   file,
		reader: reader,
	}, nil
}

// Next returns the next valid participant, skipping malformed rows.
// It returns io.EOF once the file is exhausted.
func (s *ParticipantSource) Next() (*models.Participant, int, error) {
	for {
		record, err := s.reader.Read()
		if err == io.EOF {
			return nil, s.line, io.EOF
		}
		s.line++

		// Header row is always skipped, even when it fails to parse
		if !s.header {
			s.header = true
			continue
		}

		if err != nil {
			s.skipRow(record, fmt.Errorf("parsing CSV row: %w", err))
			continue
		}

		if len(record) != 3 {
			s.skipRow(record, fmt.Errorf("%w: expected 3 columns, got %d", apperrors.ErrInvalidInput, len(record)))
			continue
		}

		participant := &models.Participant{
			FirstName: strings.TrimSpace(record[0]),
			LastName:  strings.TrimSpace(record[1]),
			Email:     strings.TrimSpace(record[2]),
		}
		if err := participant.Validate(); err != nil {
			s.skipRow(record, err)
			continue
		}

		return participant, s.line, nil
	}
}

// SkippedRows returns the rows skipped so far with their reasons
func (s *ParticipantSource) SkippedRows() []models.Failure {
	return s.skipped
}

// Close closes the underlying file
func (s *ParticipantSource) Close() error {
	return s.file.Close()
}

func (s *ParticipantSource) skipRow(record []string, err error) {
	log.WithError(err).WithFields(log.Fields{
		"line": s.line,
		"row":  strings.Join(record, ","),
	}).Warn("Skipping malformed participant row")

	s.skipped = append(s.skipped, models.Failure{
		Participant: strings.Join(record, ","),
		Line:        s.line,
		Reason:      err.Error(),
	})
}
