package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/etnz/cashbook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	answer string
	err    error
	prompt string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.answer, f.err
}

func TestSuggest(t *testing.T) {
	categories := []string{"Alquiler", "Suministros", cashbook.CategoryOtherExpenses}
	tests := []struct {
		name        string
		answer      string
		want        string
		wantMatched bool
	}{
		{name: "exact", answer: "Suministros", want: "Suministros", wantMatched: true},
		{name: "decorated", answer: "**alquiler**\n", want: "Alquiler", wantMatched: true},
		{name: "quoted", answer: `"Suministros".`, want: "Suministros", wantMatched: true},
		{name: "unknown", answer: "Viajes", want: cashbook.CategoryOtherExpenses},
		{name: "chatty", answer: "Creo que es Alquiler porque...", want: cashbook.CategoryOtherExpenses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{answer: tt.answer}
			got, err := New(gen).Suggest(context.Background(), "Factura luz enero", cashbook.Expense, categories)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Category)
			assert.Equal(t, tt.wantMatched, got.Matched)
			assert.Contains(t, gen.prompt, "Factura luz enero")
			assert.Contains(t, gen.prompt, "- Suministros\n")
			assert.Contains(t, gen.prompt, "gasto")
		})
	}
}

func TestSuggestIncomeFallback(t *testing.T) {
	got, err := New(&fakeGenerator{answer: "?"}).Suggest(context.Background(), "x", cashbook.Income, []string{"Ventas"})
	require.NoError(t, err)
	assert.Equal(t, cashbook.CategoryOtherIncome, got.Category)
}

func TestSuggestErrors(t *testing.T) {
	_, err := New(&fakeGenerator{}).Suggest(context.Background(), "x", cashbook.Income, nil)
	assert.ErrorIs(t, err, ErrNoCategories)

	boom := errors.New("quota exceeded")
	_, err = New(&fakeGenerator{err: boom}).Suggest(context.Background(), "x", cashbook.Income, []string{"Ventas"})
	assert.ErrorIs(t, err, boom)
}
