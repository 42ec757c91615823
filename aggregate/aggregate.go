// Package aggregate ranks a completed batch of quotes. It is pure: given
// the same quotes it always produces the same result, with no side effects.
package aggregate

import "medcompare/models"

// Result maps a quote batch to a SearchResult. The minimum is taken over
// present prices only; every quote matching it is flagged cheapest, ties
// included. CheapestPrice is nil exactly when no quote has a price.
// Input order is preserved.
func Result(medicine string, quotes []models.Quote) *models.SearchResult {
	var min *int
	for i := range quotes {
		p := quotes[i].Price
		if p == nil {
			continue
		}
		if min == nil || *p < *min {
			min = p
		}
	}

	ranked := make([]models.RankedQuote, len(quotes))
	for i, q := range quotes {
		ranked[i] = models.RankedQuote{
			Quote:      q,
			IsCheapest: q.Price != nil && min != nil && *q.Price == *min,
		}
	}

	var cheapest *int
	if min != nil {
		v := *min
		cheapest = &v
	}

	return &models.SearchResult{
		Medicine:      medicine,
		Results:       ranked,
		CheapestPrice: cheapest,
	}
}
