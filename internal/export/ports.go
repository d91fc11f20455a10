// Package export defines the outbound ports for pushing monthly results to
// external destinations.
package export

import (
	"context"

	"huishoudboekje/internal/core"
)

// SummaryWriter appends a month's household summary to an external sheet.
type SummaryWriter interface {
	AppendMonthSummary(ctx context.Context, m core.MonthKey, s core.HouseholdSummary) error
}
