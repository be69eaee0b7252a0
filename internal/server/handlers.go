package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/labscan"
	"github.com/tsawler/labscan/format"
	"github.com/tsawler/labscan/internal/observability"
	"github.com/tsawler/labscan/model"
)

// UploadField is the multipart form field that carries the report image.
const UploadField = "file"

var errMissingUpload = errors.New("missing upload")

// ScanHandler serves the lab test extraction endpoint.
type ScanHandler struct {
	logger         *observability.Logger
	scanner        *labscan.Scanner
	maxUploadBytes int64
}

// NewScanHandler creates a new scan handler.
func NewScanHandler(logger *observability.Logger, scanner *labscan.Scanner, maxUploadBytes int64) *ScanHandler {
	return &ScanHandler{
		logger:         logger,
		scanner:        scanner,
		maxUploadBytes: maxUploadBytes,
	}
}

// GetLabTests handles POST /get-lab-tests. The response status is always
// 200; failures are reported through the envelope.
func (h *ScanHandler) GetLabTests(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	scanID := uuid.NewString()
	ctx := observability.ContextWithScanID(r.Context(), scanID)
	logger := h.logger.WithContext(ctx)

	w.Header().Set("X-Scan-ID", scanID)

	scanner, err := h.scannerFor(r)
	if err != nil {
		logger.Warn().Err(err).Msg("Invalid scan options")
		writeResponse(w, model.Failure())
		return
	}

	data, filename, err := h.readUpload(w, r)
	if errors.Is(err, errMissingUpload) {
		logger.Info().Err(err).Msg("Scan request without upload")
		writeResponse(w, model.Failure())
		return
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to read upload")
		writeResponse(w, model.Failure())
		return
	}

	detected := format.Sniff(data, filename)
	if ext := format.Detect(filename); ext != format.Unknown && detected != format.Unknown && ext != detected {
		logger.Debug().
			Str("filename", filename).
			Str("format", detected.String()).
			Str("expected_extension", detected.Extension()).
			Msg("Upload extension does not match content")
	}

	resp, warnings, err := scanner.Process(ctx, data)
	if err != nil {
		logger.Error().
			Err(err).
			Str("filename", filename).
			Str("format", detected.String()).
			Int("bytes", len(data)).
			Dur("duration", time.Since(start)).
			Msg("Scan failed")
		writeResponse(w, resp)
		return
	}

	dropped := 0
	for _, warn := range warnings {
		if warn.Kind == labscan.WarningDroppedRecord {
			dropped++
		}
		logger.Debug().Str("kind", warn.Kind.String()).Msg(warn.Message)
	}

	logger.Info().
		Str("filename", filename).
		Str("format", detected.String()).
		Int("bytes", len(data)).
		Int("records", len(resp.Data)).
		Int("dropped", dropped).
		Bool("preprocessing", scanner.PreprocessingEnabled()).
		Bool("spell_correction", scanner.SpellCorrectionEnabled()).
		Dur("duration", time.Since(start)).
		Msg("Scan completed")

	writeResponse(w, resp)
}

// Health handles GET /health.
func (h *ScanHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// scannerFor applies the preprocess and spellcheck query flags to the
// configured scanner.
func (h *ScanHandler) scannerFor(r *http.Request) (*labscan.Scanner, error) {
	scanner := h.scanner
	query := r.URL.Query()

	if v := query.Get("preprocess"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("preprocess flag %q: %w", v, err)
		}
		scanner = scanner.Preprocessing(b)
	}

	if v := query.Get("spellcheck"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("spellcheck flag %q: %w", v, err)
		}
		scanner = scanner.SpellCorrection(b)
	}

	return scanner, nil
}

// readUpload returns the bytes of the uploaded file and its name.
func (h *ScanHandler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, "", fmt.Errorf("parse multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(UploadField)
	if err != nil {
		return nil, "", fmt.Errorf("%w: field %q: %w", errMissingUpload, UploadField, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, header.Filename, fmt.Errorf("read upload: %w", err)
	}
	return data, header.Filename, nil
}

// writeResponse writes the envelope with status 200.
func writeResponse(w http.ResponseWriter, resp model.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}
