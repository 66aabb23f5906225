// Package ledger holds the accepted nutrition records of one session.
package ledger

import (
	"sync"

	"github.com/spboyer/kcal/internal/models"
)

// Ledger is an append-only, ordered list of records. The zero value is ready
// to use. Readers may run concurrently with the single writer.
type Ledger struct {
	mu      sync.RWMutex
	records []models.NutritionRecord
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Append adds r after every record appended before it.
func (l *Ledger) Append(r models.NutritionRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, r)
}

// Records returns a copy of the records in append order.
func (l *Ledger) Records() []models.NutritionRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]models.NutritionRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Aggregate sums every record from scratch. It is never cached, so it always
// matches the current contents.
func (l *Ledger) Aggregate() models.Totals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.Sum(l.records)
}
