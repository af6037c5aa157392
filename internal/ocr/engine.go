package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"sync"
	"time"

	"github.com/otiai10/gosseract/v2"

	"github.com/your-org/catalog/internal/config"
	"github.com/your-org/catalog/internal/imaging"
	"github.com/your-org/catalog/internal/observability"
)

// ErrConcurrentOperation is returned when recognition is requested while a
// previous recognition is still in flight. The engine supports at most one.
var ErrConcurrentOperation = errors.New("ocr engine is already processing an image")

// State of the recognition engine.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateProcessing    State = "processing"
	StateError         State = "error"
)

// ProgressFunc receives coarse progress updates: percentage 0-100 plus a
// status label. Initialization covers 0-40, recognition 50-100.
type ProgressFunc func(percent int, status string)

// Engine wraps a Tesseract client behind a small state machine. Initialization
// is lazy and idempotent; a failed init leaves the engine retryable.
type Engine struct {
	mu       sync.Mutex
	state    State
	client   *gosseract.Client
	progress ProgressFunc

	language string
	tessdata string
}

func NewEngine(cfg config.OCRConfig) *Engine {
	return &Engine{
		state:    StateUninitialized,
		language: cfg.Language,
		tessdata: cfg.TessdataDir,
	}
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetProgressCallback registers the progress receiver. Passing nil clears it.
func (e *Engine) SetProgressCallback(fn ProgressFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.progress = fn
}

func (e *Engine) report(percent int, status string) {
	e.mu.Lock()
	fn := e.progress
	e.mu.Unlock()
	if fn != nil {
		fn(percent, status)
	}
}

// Initialize loads the Tesseract client and language model. Calling it while
// already ready is a no-op; after a failure it can be called again to retry.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	switch e.state {
	case StateReady, StateProcessing:
		e.mu.Unlock()
		return nil
	case StateInitializing:
		e.mu.Unlock()
		return fmt.Errorf("ocr engine initialization already in progress")
	}
	e.state = StateInitializing
	e.mu.Unlock()

	err := e.initClient()

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateError
		return fmt.Errorf("initialize ocr engine: %w", err)
	}
	e.state = StateReady
	return nil
}

func (e *Engine) initClient() error {
	e.report(10, "loading tesseract core")
	client := gosseract.NewClient()

	e.report(20, "initializing tesseract")
	if e.tessdata != "" {
		if err := client.SetTessdataPrefix(e.tessdata); err != nil {
			client.Close()
			return fmt.Errorf("set tessdata prefix: %w", err)
		}
	}

	e.report(30, "loading language traineddata")
	if err := client.SetLanguage(e.language); err != nil {
		client.Close()
		return fmt.Errorf("set language %q: %w", e.language, err)
	}

	e.report(40, "initializing api")

	e.mu.Lock()
	e.client = client
	e.mu.Unlock()

	slog.Info("ocr engine initialized", "language", e.language)
	return nil
}

// ExtractText preprocesses the image and runs recognition on it. The engine
// auto-initializes from the uninitialized state; a call while processing
// fails fast with ErrConcurrentOperation.
func (e *Engine) ExtractText(ctx context.Context, imageDataURI string) (string, error) {
	e.mu.Lock()
	if e.state == StateProcessing {
		e.mu.Unlock()
		return "", ErrConcurrentOperation
	}
	needInit := e.state != StateReady
	e.mu.Unlock()

	if needInit {
		if err := e.Initialize(); err != nil {
			return "", err
		}
	}

	e.mu.Lock()
	if e.state == StateProcessing {
		e.mu.Unlock()
		return "", ErrConcurrentOperation
	}
	e.state = StateProcessing
	client := e.client
	e.mu.Unlock()

	text, err := e.recognize(ctx, client, imageDataURI)

	e.mu.Lock()
	e.state = StateReady
	e.mu.Unlock()

	if err != nil {
		return "", err
	}
	return text, nil
}

func (e *Engine) recognize(ctx context.Context, client *gosseract.Client, imageDataURI string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()
	img, err := imaging.DecodeDataURI(imageDataURI)
	if err != nil {
		return "", err
	}
	processed := preprocess(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, processed); err != nil {
		return "", fmt.Errorf("encode preprocessed image: %w", err)
	}
	observability.OCRDuration.WithLabelValues("preprocess").Observe(time.Since(start).Seconds())

	e.report(50, "recognizing text")

	start = time.Now()
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	observability.OCRDuration.WithLabelValues("recognize").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("recognize text: %w", err)
	}

	e.report(100, "recognizing text")
	return text, nil
}

// Extraction is the result envelope for form autofill. Failures are carried
// in Error rather than propagated, so the HTTP layer never sees a panic from
// the recognition path.
type Extraction struct {
	Success          bool                  `json:"success"`
	Data             map[string]string     `json:"data,omitempty"`
	ConfidenceScores map[string]Confidence `json:"confidenceScores,omitempty"`
	OriginalText     string                `json:"originalText,omitempty"`
	Error            string                `json:"error,omitempty"`
}

// ExtractFormData runs recognition and field parsing in one call.
func (e *Engine) ExtractFormData(ctx context.Context, imageDataURI string, onProgress ProgressFunc) Extraction {
	if onProgress != nil {
		e.SetProgressCallback(onProgress)
	}

	text, err := e.ExtractText(ctx, imageDataURI)
	if err != nil {
		slog.Error("extract form data", "error", err)
		return Extraction{Success: false, Error: err.Error()}
	}

	start := time.Now()
	data, scores := ParseFields(text)
	observability.OCRDuration.WithLabelValues("parse").Observe(time.Since(start).Seconds())

	return Extraction{
		Success:          true,
		Data:             data,
		ConfidenceScores: scores,
		OriginalText:     text,
	}
}

// Terminate releases the Tesseract client from any state.
func (e *Engine) Terminate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		if err := e.client.Close(); err != nil {
			slog.Warn("close ocr client", "error", err)
		}
		e.client = nil
	}
	e.state = StateUninitialized
}
