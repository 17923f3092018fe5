package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	log "github.com/sirupsen/logrus"

	"certgen/pkg/config"
	apperrors "certgen/pkg/errors"
	"certgen/pkg/models"
)

const (
	fontFamily = "certificate"
	pageMargin = 15.0

	// Full names at least this long (in runes) are split onto two lines
	// unless the layout configures its own threshold
	defaultSplitThreshold = 30

	// Second line offset defaults to a fraction of the font size
	defaultLineGapFactor = 0.85
)

// nameStyle is the resolved font size and baseline for one participant name
type nameStyle struct {
	fontSize float64
	baseline float64
	split    bool
}

// RenderService renders one certificate PDF per participant
type RenderService struct {
	layout    config.ContentConfig
	color     config.RGB
	outputDir string
}

// NewRenderService creates a new RenderService
func NewRenderService(cfg *config.Config) *RenderService {
	return &RenderService{
		layout:    cfg.Content,
		color:     cfg.Color,
		outputDir: cfg.OutputDir,
	}
}

// RenderCertificate renders the certificate for one participant and returns
// the written file path. An existing file of the same name is overwritten.
func (s *RenderService) RenderCertificate(participant *models.Participant) (string, error) {
	// gofpdf resolves font file names against its own font directory, which
	// mangles absolute paths; load the bytes here instead
	fontBytes, err := os.ReadFile(s.layout.FontPath)
	if err != nil {
		return "", fmt.Errorf("%w: font file %s: %v", apperrors.ErrRenderFailed, s.layout.FontPath, err)
	}
	if _, err := os.Stat(s.layout.BackgroundImage); err != nil {
		return "", fmt.Errorf("%w: background image %s: %v", apperrors.ErrRenderFailed, s.layout.BackgroundImage, err)
	}
	if err := os.MkdirAll(s.outputDir, 0755); err != nil {
		return "", fmt.Errorf("%w: creating output directory %s: %v", apperrors.ErrRenderFailed, s.outputDir, err)
	}

	fullName := participant.FullName()

	pdf := gofpdf.New(s.layout.Orientation, "mm", "A4", "")
	pdf.SetAutoPageBreak(true, pageMargin)
	pdf.AddPage()

	pageWidth, pageHeight := pdf.GetPageSize()
	pdf.ImageOptions(s.layout.BackgroundImage, 0, 0, pageWidth, pageHeight, false,
		gofpdf.ImageOptions{ReadDpi: true}, 0, "")

	pdf.AddUTF8FontFromBytes(fontFamily, "", fontBytes)
	pdf.SetTextColor(s.color.R, s.color.G, s.color.B)

	style := s.resolveNameStyle(fullName)
	pdf.SetFont(fontFamily, "", style.fontSize)

	if style.split {
		first, second := splitFullName(fullName)
		gap := resolveSplitLineGap(style.fontSize, float64(s.layout.SplitNameLineGap))
		pdf.Text(textCenterX(pdf.GetStringWidth(first), pageWidth), style.baseline, first)
		if second != "" {
			pdf.Text(textCenterX(pdf.GetStringWidth(second), pageWidth), style.baseline+gap, second)
		}
	} else {
		pdf.Text(textCenterX(pdf.GetStringWidth(fullName), pageWidth), style.baseline, fullName)
	}

	if pdf.Err() {
		return "", apperrors.NewServiceError("renderer", "RenderCertificate",
			fmt.Errorf("%w: %v", apperrors.ErrRenderFailed, pdf.Error())).
			WithContext("participant", fullName)
	}

	outputPath := filepath.Join(s.outputDir, participant.FileName())
	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return "", apperrors.NewServiceError("renderer", "RenderCertificate",
			fmt.Errorf("%w: writing %s: %v", apperrors.ErrRenderFailed, outputPath, err))
	}

	log.WithFields(log.Fields{
		"participant": fullName,
		"file":        outputPath,
	}).Info("Generated certificate")

	return outputPath, nil
}

// resolveNameStyle picks the font size and baseline for a name, applying the
// long-name and split-name overrides from the layout
func (s *RenderService) resolveNameStyle(fullName string) nameStyle {
	style := nameStyle{
		fontSize: float64(s.layout.FontSize),
		baseline: float64(s.layout.TextY),
	}

	nameLength := utf8.RuneCountInString(fullName)

	if threshold := float64(s.layout.LongNameThreshold); threshold > 0 && float64(nameLength) >= threshold {
		style.fontSize, style.baseline = resolveStyleOverride(
			style.fontSize, style.baseline,
			float64(s.layout.LongNameFontSize), float64(s.layout.LongNameTextY))
	}

	if shouldSplitFullName(fullName, float64(s.layout.SplitNameThreshold)) {
		style.split = true
		style.fontSize, style.baseline = resolveStyleOverride(
			style.fontSize, style.baseline,
			float64(s.layout.SplitNameFontSize), float64(s.layout.SplitNameTextY))
	}

	return style
}

// textCenterX returns the X position that centers text of the given width
func textCenterX(textWidth, pageWidth float64) float64 {
	return (pageWidth - textWidth) / 2
}

// shouldSplitFullName reports whether a name is long enough to split onto
// two lines; a non-positive threshold falls back to the default
func shouldSplitFullName(fullName string, threshold float64) bool {
	if threshold <= 0 {
		threshold = defaultSplitThreshold
	}
	return float64(utf8.RuneCountInString(fullName)) >= threshold
}

// resolveSplitLineGap returns the vertical gap between the two name lines;
// a non-positive configured value falls back to a font-size-based gap
func resolveSplitLineGap(fontSize, configured float64) float64 {
	if configured > 0 {
		return configured
	}
	return fontSize * defaultLineGapFactor
}

// resolveStyleOverride applies optional font size and baseline overrides,
// keeping the base values where an override is unset or invalid
func resolveStyleOverride(fontSize, baseline, overrideSize, overrideBaseline float64) (float64, float64) {
	if overrideSize > 0 {
		fontSize = overrideSize
	}
	if overrideBaseline > 0 {
		baseline = overrideBaseline
	}
	return fontSize, baseline
}

// splitFullName breaks a name in two at the space nearest its midpoint.
// A name without spaces stays on a single line.
func splitFullName(fullName string) (string, string) {
	runes := []rune(fullName)
	middle := len(runes) / 2

	bestIndex := -1
	bestDistance := len(runes)
	for i, r := range runes {
		if r != ' ' {
			continue
		}
		distance := i - middle
		if distance < 0 {
			distance = -distance
		}
		if distance < bestDistance {
			bestDistance = distance
			bestIndex = i
		}
	}

	if bestIndex < 0 {
		return fullName, ""
	}
	return strings.TrimSpace(string(runes[:bestIndex])), strings.TrimSpace(string(runes[bestIndex+1:]))
}
