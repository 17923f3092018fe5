package models

import "testing"

func TestParticipant_FullName(t *testing.T) {
	p := &Participant{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if got := p.FullName(); got != "Ada Lovelace" {
		t.Errorf("FullName() = %q, want %q", got, "Ada Lovelace")
	}
}

func TestParticipant_FileName(t *testing.T) {
	p := &Participant{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"}
	if got := p.FileName(); got != "Ada_Lovelace.pdf" {
		t.Errorf("FileName() = %q, want %q", got, "Ada_Lovelace.pdf")
	}
}

func TestParticipant_Validate(t *testing.T) {
	tests := []struct {
		name        string
		participant Participant
		wantErr     bool
	}{
		{
			name:        "valid",
			participant: Participant{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
		},
		{
			name:        "missing first name",
			participant: Participant{LastName: "Lovelace", Email: "ada@example.com"},
			wantErr:     true,
		},
		{
			name:        "missing last name",
			participant: Participant{FirstName: "Ada", Email: "ada@example.com"},
			wantErr:     true,
		},
		{
			name:        "missing email",
			participant: Participant{FirstName: "Ada", LastName: "Lovelace"},
			wantErr:     true,
		},
		{
			name:        "blank email",
			participant: Participant{FirstName: "Ada", LastName: "Lovelace", Email: "   "},
			wantErr:     true,
		},
		{
			name:        "path separator in name",
			participant: Participant{FirstName: "Ada/..", LastName: "Lovelace", Email: "ada@example.com"},
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.participant.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := &Summary{Rendered: 2, Sent: 1, Skipped: 1}
	s.AddFailure("Jane Smith", 3, ErrReason("render failed"))

	if s.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", s.Failed())
	}

	tests := []struct {
		name    string
		summary *Summary
		want    string
	}{
		{
			name:    "single skipped row",
			summary: s,
			want:    "2 rendered, 1 sent, 1 failed, 1 row skipped",
		},
		{
			name:    "multiple skipped rows",
			summary: &Summary{Rendered: 3, Sent: 3, Skipped: 2},
			want:    "3 rendered, 3 sent, 0 failed, 2 rows skipped",
		},
		{
			name:    "no skipped rows",
			summary: &Summary{Rendered: 1, Sent: 1},
			want:    "1 rendered, 1 sent, 0 failed, 0 rows skipped",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ErrReason is a trivial error for summary tests
type ErrReason string

func (e ErrReason) Error() string { return string(e) }
