// Package services provides the core logic of the certificate generator.
//
// It includes services for:
//   - Participant streaming: Reading the participant CSV lazily, in order
//   - Certificate rendering: Producing one PDF per participant with gofpdf
//   - Notification: Emailing certificates over a reused SMTP connection
//   - Orchestration: Running render-then-notify per participant with
//     non-fatal per-participant failure handling
//
// Fatal errors (missing or malformed configuration, missing CSV) abort the
// run; everything else is collected into the run summary.
package services
