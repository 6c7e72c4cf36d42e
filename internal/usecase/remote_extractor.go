package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hinote/backend/internal/domain"
	"github.com/hinote/backend/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Defaults for the completion request
const (
	DefaultModel       = "llama-3.1-8b-instant"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 1024
	DefaultTimeout     = 8 * time.Second
)

// Extraction outcome labels
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"

	ReasonOK         = "ok"
	ReasonNoClient   = "no_client"
	ReasonCompletion = "completion_error"
	ReasonParse      = "parse_error"
	ReasonPanic      = "panic"
)

var extractionsTotal = metrics.MustCounterVec(
	"extractions_total",
	"Order extractions by the path that produced the result",
	"source", "reason",
)

// RemoteExtractorConfig holds configuration for the remote extractor
type RemoteExtractorConfig struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// RemoteExtractor asks a language model to extract the order and falls back
// to FallbackExtract on any failure
type RemoteExtractor struct {
	client      domain.CompletionClient
	model       string
	temperature float64
	maxTokens   int
	timeout     time.Duration
	log         logrus.FieldLogger
}

// NewRemoteExtractor creates a remote extractor. A nil client means no model
// is configured and every call goes straight to the fallback parser.
func NewRemoteExtractor(client domain.CompletionClient, config RemoteExtractorConfig, log logrus.FieldLogger) *RemoteExtractor {
	model := config.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := config.Temperature
	if temperature < 0 {
		temperature = DefaultTemperature
	}

	maxTokens := config.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	if log == nil {
		log = logrus.StandardLogger()
	}

	return &RemoteExtractor{
		client:      client,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		timeout:     timeout,
		log:         log.WithField("component", "remote_extractor"),
	}
}

// Extract never fails. Transport errors, error statuses, empty replies,
// missing or malformed JSON all end in the fallback parser.
func (e *RemoteExtractor) Extract(ctx context.Context, utterance string, catalog []domain.Product) (result domain.ExtractionResult) {
	if e.client == nil {
		e.log.Debug("no completion client configured, using fallback parser")
		extractionsTotal.WithLabelValues(SourceFallback, ReasonNoClient).Inc()
		return FallbackExtract(utterance, catalog)
	}

	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("panic", r).Error("remote extraction panicked, using fallback parser")
			extractionsTotal.WithLabelValues(SourceFallback, ReasonPanic).Inc()
			result = FallbackExtract(utterance, catalog)
		}
	}()

	result, err := e.extractRemote(ctx, utterance, catalog)
	if err != nil {
		e.log.WithError(err).Warn("remote extraction failed, using fallback parser")
		extractionsTotal.WithLabelValues(SourceFallback, failureReason(err)).Inc()
		return FallbackExtract(utterance, catalog)
	}

	e.log.WithFields(logrus.Fields{
		"items":        len(result.Items),
		"new_products": len(result.NewProducts),
	}).Debug("remote extraction succeeded")
	extractionsTotal.WithLabelValues(SourceRemote, ReasonOK).Inc()
	return result
}

func failureReason(err error) string {
	if errors.Is(err, domain.ErrNoJSONObject) || errors.Is(err, domain.ErrMalformedCompletion) {
		return ReasonParse
	}
	return ReasonCompletion
}

func (e *RemoteExtractor) extractRemote(ctx context.Context, utterance string, catalog []domain.Product) (domain.ExtractionResult, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	content, err := e.client.Complete(ctx, e.buildRequest(utterance, catalog))
	if err != nil {
		return domain.ExtractionResult{}, err
	}
	if content == "" {
		return domain.ExtractionResult{}, domain.ErrEmptyCompletion
	}

	result, err := ParseCompletion(content)
	if err != nil {
		return domain.ExtractionResult{}, fmt.Errorf("parse completion: %w", err)
	}
	return result, nil
}

func (e *RemoteExtractor) buildRequest(utterance string, catalog []domain.Product) *domain.ChatCompletionRequest {
	return &domain.ChatCompletionRequest{
		Model: e.model,
		Messages: []domain.ChatMessage{
			{Role: domain.RoleSystem, Content: BuildExtractionPrompt(catalog)},
			{Role: domain.RoleUser, Content: utterance},
		},
		Temperature: e.temperature,
		MaxTokens:   e.maxTokens,
	}
}
