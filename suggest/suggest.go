// Package suggest proposes a category for a transaction description using a
// language model. Proposals are always taken from the book's registry.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/cashbook"
	"github.com/etnz/cashbook/internal/logger"
	"google.golang.org/genai"
)

// Generator answers a text prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini is a Generator backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini generator. An empty apiKey lets the client read
// GEMINI_API_KEY or GOOGLE_API_KEY from the environment.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	cfg := &genai.GenerateContentConfig{Temperature: genai.Ptr[float32](0)}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// ErrNoCategories is returned when the registry to choose from is empty.
var ErrNoCategories = errors.New("no category to choose from")

// Suggestion is the proposed category. Matched is false when the model
// answer was not in the registry and the catch-all category was used instead.
type Suggestion struct {
	Category string
	Matched  bool
	Answer   string // raw model answer
}

// Suggester proposes categories.
type Suggester struct {
	gen Generator
}

func New(gen Generator) *Suggester { return &Suggester{gen: gen} }

// Suggest proposes one of categories for a transaction of type typ.
func (s *Suggester) Suggest(ctx context.Context, description string, typ cashbook.TxType, categories []string) (Suggestion, error) {
	if len(categories) == 0 {
		return Suggestion{}, ErrNoCategories
	}
	answer, err := s.gen.Generate(ctx, prompt(description, typ, categories))
	if err != nil {
		return Suggestion{}, err
	}
	if c, ok := match(answer, categories); ok {
		return Suggestion{Category: c, Matched: true, Answer: answer}, nil
	}
	fallback := cashbook.CategoryOtherIncome
	if typ == cashbook.Expense {
		fallback = cashbook.CategoryOtherExpenses
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("answer", answer).Str("category", fallback).Msg("answer is not a known category")
	return Suggestion{Category: fallback, Answer: answer}, nil
}

func prompt(description string, typ cashbook.TxType, categories []string) string {
	kind := "ingreso"
	if typ == cashbook.Expense {
		kind = "gasto"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Clasifica este %s de una pequeña empresa en una de las categorías siguientes.\n", kind)
	fmt.Fprintf(&b, "Descripción: %q\n", description)
	b.WriteString("Categorías:\n")
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	b.WriteString("Responde SOLO con el nombre exacto de la categoría, sin comillas ni explicación.\n")
	return b.String()
}

// match finds the category named in answer, ignoring case, quotes and
// Markdown decoration.
func match(answer string, categories []string) (string, bool) {
	a := strings.Trim(strings.TrimSpace(answer), "`\"'*.- \n")
	if i := strings.IndexByte(a, '\n'); i >= 0 {
		a = strings.TrimSpace(a[:i])
	}
	for _, c := range categories {
		if strings.EqualFold(a, c) {
			return c, true
		}
	}
	return "", false
}
