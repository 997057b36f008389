package service

import (
	"context"
	"math/rand/v2"
	"time"

	"serenity/internal/core/domain"
)

var SampleQuotes = []domain.Quote{
	{Text: "The purpose of our lives is to be happy.", Author: "Dalai Lama"},
	{Text: "Life is what happens when you're busy making other plans.", Author: "John Lennon"},
	{Text: "The future belongs to those who believe in the beauty of their dreams.", Author: "Eleanor Roosevelt"},
	{Text: "It is during our darkest moments that we must focus to see the light.", Author: "Aristotle"},
	{Text: "You are braver than you believe, stronger than you seem, and smarter than you think.", Author: "A.A. Milne"},
	{Text: "Be yourself; everyone else is already taken.", Author: "Oscar Wilde"},
	{Text: "In a gentle way, you can shake the world.", Author: "Mahatma Gandhi"},
	{Text: "The only way to do great work is to love what you do.", Author: "Steve Jobs"},
	{Text: "Keep your face always toward the sunshine, and shadows will fall behind you.", Author: "Walt Whitman"},
	{Text: "The only limit to our realization of tomorrow is our doubts of today.", Author: "Franklin D. Roosevelt"},
}

type QuoteService struct {
	quotes []domain.Quote
	pick   func(n int) int
	now    func() time.Time
}

func NewQuoteService(quotes []domain.Quote) *QuoteService {
	if len(quotes) == 0 {
		quotes = SampleQuotes
	}

	return &QuoteService{quotes: quotes, pick: rand.IntN, now: time.Now}
}

func (q *QuoteService) Random(ctx context.Context) domain.Quote {
	quote := q.quotes[q.pick(len(q.quotes))]
	now := q.now()
	quote.Timestamp = &now

	return quote
}

func (q *QuoteService) All(ctx context.Context) []domain.Quote {
	out := make([]domain.Quote, len(q.quotes))
	copy(out, q.quotes)

	return out
}

// ByCategory returns a random quote labelled with category. Quotes are not
// categorized yet, so any quote qualifies.
func (q *QuoteService) ByCategory(ctx context.Context, category string) domain.Quote {
	quote := q.Random(ctx)
	quote.Category = category

	return quote
}
