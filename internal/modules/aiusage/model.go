// README: Extraction quota definitions.
package aiusage

import "errors"

// ErrQuotaExhausted is returned when a user has no extraction calls remaining for the current month.
var ErrQuotaExhausted = errors.New("extraction quota exhausted")

// DefaultMonthlyCalls is the number of AI extraction calls granted per month.
const DefaultMonthlyCalls = 100

// monthLayout keys the lazy monthly reset.
const monthLayout = "2006-01"
