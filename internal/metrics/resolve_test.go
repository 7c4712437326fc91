package metrics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fliptrack/fliptrack/internal/records"
)

func TestResolveSalesJoinsCostBasis(t *testing.T) {
	shipping := 5.0
	items := []records.Item{
		{ID: "10", PurchasePrice: 80, ShippingPrice: &shipping},
	}
	sales := []records.Sale{
		{ID: "1", ItemID: "10", SalePrice: 120},
	}

	resolved := resolveSales(sales, items)
	require.Len(t, resolved, 1)
	require.True(t, resolved[0].Found)
	require.Equal(t, 80.0, resolved[0].CostBasis)
	require.Equal(t, 5.0, resolved[0].ShippingCost)
}

func TestResolveSalesOrphanKeepsSale(t *testing.T) {
	sales := []records.Sale{
		{ID: "1", ItemID: "999", SalePrice: 120},
	}

	resolved := resolveSales(sales, nil)
	require.Len(t, resolved, 1)
	require.False(t, resolved[0].Found)
	require.Zero(t, resolved[0].CostBasis)
	require.Zero(t, resolved[0].ShippingCost)
	require.Equal(t, 120.0, resolved[0].Sale.SalePrice)
}

func TestResolveSalesTypeTolerantIdentifiers(t *testing.T) {
	cases := []struct {
		name   string
		itemID records.RecordID
		saleID records.RecordID
	}{
		{"string vs numeric", "7", "7.0"},
		{"padded whitespace", "42", " 42 "},
		{"identical strings", "sku-9", "sku-9"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := []records.Item{{ID: tc.itemID, PurchasePrice: 10}}
			sales := []records.Sale{{ID: "1", ItemID: tc.saleID, SalePrice: 20}}
			resolved := resolveSales(sales, items)
			require.True(t, resolved[0].Found, "ids %q and %q should match", tc.itemID, tc.saleID)
		})
	}
}

func TestRecordIDUnmarshalAcceptsStringAndNumber(t *testing.T) {
	var sale records.Sale
	require.NoError(t, json.Unmarshal([]byte(`{"id": 7, "itemId": "7"}`), &sale))
	require.True(t, sale.ID.Equal(sale.ItemID))
}
