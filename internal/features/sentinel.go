package features

import (
	"retailfx/pkg/contracts/domain"
)

// FillSentinels replaces missing CustomerID and Description values with the
// UNKNOWN_* sentinels and returns how many of each were substituted.
func FillSentinels(rows []domain.TransactionRow) (customers, descriptions int) {
	for i := range rows {
		if rows[i].CustomerID == "" {
			rows[i].CustomerID = domain.UnknownCustomer
			customers++
		}
		if rows[i].Description == "" {
			rows[i].Description = domain.UnknownDescription
			descriptions++
		}
	}
	return customers, descriptions
}
