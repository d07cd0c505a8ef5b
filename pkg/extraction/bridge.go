// Package extraction turns a block of free text into contact insert
// payloads by asking an LLM for a strict JSON array.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-crm-be/internal/constant"
	"ai-crm-be/internal/entity"
	"ai-crm-be/internal/pkg/logger"
	"ai-crm-be/pkg/crmerr"
	"ai-crm-be/pkg/llm"
)

const logModule = "ExtractionBridge"

var ErrProviderNotConfigured = errors.New("the AI service is not configured, set the API key")

type Bridge struct {
	provider        llm.LLMProvider
	logger          logger.ILogger
	searchGrounding bool
	temperature     float64
}

type BridgeOption func(*Bridge)

func WithSearchGrounding(enabled bool) BridgeOption {
	return func(b *Bridge) { b.searchGrounding = enabled }
}

func WithTemperature(t float64) BridgeOption {
	return func(b *Bridge) { b.temperature = t }
}

// NewBridge accepts a nil provider; Extract then reports a service error.
func NewBridge(provider llm.LLMProvider, log logger.ILogger, opts ...BridgeOption) *Bridge {
	if log == nil {
		log = logger.NewNopLogger()
	}
	b := &Bridge{
		provider:        provider,
		logger:          log,
		searchGrounding: true,
		temperature:     constant.ExtractionTemperature,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func BuildPrompt(text string) string {
	return fmt.Sprintf(constant.ExtractContactsPromptV1, text)
}

// Extract never infers priority, action tag or contact info; those start empty.
func (b *Bridge) Extract(ctx context.Context, text string) ([]entity.ContactInsert, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if b.provider == nil {
		return nil, crmerr.New(crmerr.KindExtractionServiceError, "extract contacts", ErrProviderNotConfigured)
	}

	start := time.Now()
	raw, err := b.provider.Generate(ctx, BuildPrompt(text),
		llm.WithTemperature(b.temperature),
		llm.WithSearchGrounding(b.searchGrounding),
	)
	if err != nil {
		b.logger.Error(logModule, "LLM call failed", map[string]interface{}{
			"provider": b.provider.Name(),
			"error":    err.Error(),
		})
		return nil, crmerr.New(crmerr.KindExtractionServiceError, "extract contacts", err)
	}

	inserts, err := ParseResponse(raw)
	if err != nil {
		b.logger.Warn(logModule, "Malformed extraction response", map[string]interface{}{
			"provider": b.provider.Name(),
			"error":    err.Error(),
			"raw_len":  len(raw),
		})
		return nil, err
	}

	b.logger.Info(logModule, "Contacts extracted", map[string]interface{}{
		"provider":    b.provider.Name(),
		"count":       len(inserts),
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return inserts, nil
}

type extractedContact struct {
	Name      string
	Summary   string
	KeyPoints []string
	Notes     string
}

// ParseResponse strips code fences and decodes a JSON array of contacts.
// The response as a whole must be an array; a malformed element only loses
// its fields and falls back to the defaults.
func ParseResponse(raw string) ([]entity.ContactInsert, error) {
	body := StripCodeFence(raw)

	if !bytes.HasPrefix(body, []byte("[")) {
		return nil, crmerr.Newf(crmerr.KindExtractionFormatError, "parse extraction", "response is not a JSON array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, crmerr.New(crmerr.KindExtractionFormatError, "parse extraction", err)
	}

	inserts := make([]entity.ContactInsert, 0, len(items))
	for _, item := range items {
		inserts = append(inserts, toInsert(decodeItem(item)))
	}
	return inserts, nil
}

// decodeItem reads each field on its own so a wrong type in one field does
// not discard the others. Non-objects decode as empty.
func decodeItem(raw json.RawMessage) extractedContact {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return extractedContact{}
	}

	item := extractedContact{
		Name:    stringField(fields["name"]),
		Summary: stringField(fields["summary"]),
		Notes:   stringField(fields["notes"]),
	}

	var points []json.RawMessage
	if err := json.Unmarshal(fields["key_points"], &points); err == nil {
		for _, p := range points {
			if s := strings.TrimSpace(stringField(p)); s != "" {
				item.KeyPoints = append(item.KeyPoints, s)
			}
		}
	}
	return item
}

func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func toInsert(item extractedContact) entity.ContactInsert {
	in := entity.ContactInsert{
		Name:        strings.TrimSpace(item.Name),
		Summary:     strings.TrimSpace(item.Summary),
		KeyPoints:   item.KeyPoints,
		ContactInfo: entity.ContactInfo{},
	}
	if in.Name == "" {
		in.Name = constant.ExtractionMissingName
	}
	if in.Summary == "" {
		in.Summary = constant.ExtractionMissingSummary
	}
	if in.KeyPoints == nil {
		in.KeyPoints = []string{}
	}
	if notes := strings.TrimSpace(item.Notes); notes != "" {
		in.Notes = &notes
	}
	return in
}

func StripCodeFence(raw string) []byte {
	body := bytes.TrimSpace([]byte(raw))
	body = bytes.TrimPrefix(body, []byte("```json"))
	body = bytes.TrimPrefix(body, []byte("```"))
	body = bytes.TrimSuffix(body, []byte("```"))
	return bytes.TrimSpace(body)
}
