// Package insight produces short financial tips and drives the assistant chat.
// Generation failures never reach the user; they are replaced with canned tips.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/Veraticus/pocket-teller/internal/common"
	"github.com/Veraticus/pocket-teller/internal/llm"
	"github.com/Veraticus/pocket-teller/internal/model"
)

// Canned tips used when generation yields nothing or fails.
const (
	FallbackEmpty       = "Consider setting up eBill for your Verizon account to avoid any late fees this month."
	FallbackUnavailable = "Great job maintaining your Savings balance! You're on track to meet your October goal."
)

// Source records where an insight's text came from.
type Source string

// Insight sources.
const (
	SourceGenerated   Source = "generated"
	SourceEmpty       Source = "fallback-empty"
	SourceUnavailable Source = "fallback-unavailable"
)

// Insight is one advisory sentence.
type Insight struct {
	Text   string
	Source Source
}

// Completer generates text for a request.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (string, error)
}

const systemPrompt = "You are Erica, the virtual financial assistant for a retail bank."

// Generator turns account activity into a single advisory sentence.
type Generator struct {
	completer   Completer
	logger      *slog.Logger
	temperature float64
	topP        float64
}

// NewGenerator creates a Generator. A nil completer always falls back.
func NewGenerator(completer Completer, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		completer:   completer,
		logger:      logger,
		temperature: 0.7,
		topP:        0.95,
	}
}

// Generate returns a tip for the given activity descriptions. It never fails.
func (g *Generator) Generate(ctx context.Context, descriptions []string) Insight {
	if g.completer == nil {
		return Insight{Text: FallbackUnavailable, Source: SourceUnavailable}
	}

	text, err := g.completer.Complete(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      buildPrompt(descriptions),
		Temperature: g.temperature,
		TopP:        g.topP,
	})
	if err != nil {
		if errors.Is(err, common.ErrInsightUnavailable) {
			g.logger.Debug("Insight provider not configured, using fallback")
		} else {
			g.logger.Warn("Insight generation failed, using fallback", "error", err)
		}
		return Insight{Text: FallbackUnavailable, Source: SourceUnavailable}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Insight{Text: FallbackEmpty, Source: SourceEmpty}
	}
	return Insight{Text: text, Source: SourceGenerated}
}

func buildPrompt(descriptions []string) string {
	activity, err := json.Marshal(descriptions)
	if err != nil {
		activity = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("Analyze the user's recent activity: ")
	b.Write(activity)
	b.WriteString(".\nProvide exactly ONE short, encouraging, and highly professional 1-sentence tip.\n")
	b.WriteString("The tip should be specific to their spending or suggest a proactive financial step (like eBill setup or Zelle® security).\n")
	b.WriteString("Do not use generic greetings. Max 20 words.")
	return b.String()
}

// Describe renders transactions as activity descriptions, e.g.
// "Starbucks Coffee (-$6.45, Food)".
func Describe(txns []model.Transaction) []string {
	out := make([]string, 0, len(txns))
	for _, t := range txns {
		out = append(out, t.Description+" ("+model.FormatUSD(t.Amount)+", "+string(t.Category)+")")
	}
	return out
}
