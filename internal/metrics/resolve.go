package metrics

import "github.com/fliptrack/fliptrack/internal/records"

// resolveSales joins each sale to its originating item by identifier. The
// items collection is the full, date-unfiltered set: an item bought outside
// the window must still back a sale made inside it.
//
// A sale whose item reference no longer resolves is kept with Found=false
// and zero cost figures; a deleted item's history is not lost, but its cost
// is unknowable.
func resolveSales(sales []records.Sale, items []records.Item) []ResolvedSale {
	index := make(map[string]records.Item, len(items))
	for _, item := range items {
		index[item.ID.Canonical()] = item
	}

	resolved := make([]ResolvedSale, 0, len(sales))
	for _, sale := range sales {
		item, ok := index[sale.ItemID.Canonical()]
		if !ok {
			resolved = append(resolved, ResolvedSale{Sale: sale})
			continue
		}
		resolved = append(resolved, ResolvedSale{
			Sale:         sale,
			CostBasis:    item.PurchasePrice,
			ShippingCost: deref(item.ShippingPrice),
			Found:        true,
		})
	}
	return resolved
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
