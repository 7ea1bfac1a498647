package orders

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleHeader = "amazon-order-id\tproduct-name\titem-price\titem-tax\tship-state\tship-country\titem-status\tpurchase-date"

func TestParseTSV(t *testing.T) {
	t.Run("parses well-formed rows", func(t *testing.T) {
		data := strings.Join([]string{
			sampleHeader,
			"111-001\tWidget\t19.99\t1.75\tCA\tUS\tShipped\t2024-07-03T14:22:01+00:00",
			"111-002\tGadget\t5.50\t0.00\tTexas\tUS\tShipped\t2024-07-04",
		}, "\n")

		items, err := ParseTSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "111-001", items[0].OrderID)
		assert.Equal(t, "Widget", items[0].ProductID)
		assert.Equal(t, "19.99", items[0].Price.String())
		assert.Equal(t, "1.75", items[0].Tax.String())
		assert.Equal(t, "CA", items[0].ShipRegion)
		assert.Equal(t, "US", items[0].ShipCountry)
		assert.Equal(t, 2024, items[0].PurchasedAt.Year())
		assert.Equal(t, time.July, items[1].PurchasedAt.Month())
	})

	t.Run("missing required column fails with the column name", func(t *testing.T) {
		data := "amazon-order-id\tproduct-name\titem-price\tship-state\tship-country\titem-status\tpurchase-date\n"
		_, err := ParseTSV(strings.NewReader(data))

		var shapeErr *DataShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "item-tax", shapeErr.Field)
	})

	t.Run("blank monetary cells default to zero", func(t *testing.T) {
		data := sampleHeader + "\n111-003\tTrinket\t\t\tWA\tUS\tShipped\t2024-07-05\n"
		items, err := ParseTSV(strings.NewReader(data))
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.True(t, items[0].Price.IsZero())
		assert.True(t, items[0].Tax.IsZero())
	})

	t.Run("empty input yields no rows", func(t *testing.T) {
		items, err := ParseTSV(strings.NewReader(""))
		require.NoError(t, err)
		require.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("header-only input yields a dataset with no rows", func(t *testing.T) {
		items, err := ParseTSV(strings.NewReader(sampleHeader + "\n"))
		require.NoError(t, err)
		require.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("short rows are tolerated", func(t *testing.T) {
		data := sampleHeader + "\n111-004\tThing\t9.99\t0.80\tOR\tUS\tShipped\t2024-07-06\n111-005\tThing\n"
		_, err := ParseTSV(strings.NewReader(data))
		assert.Error(t, err) // short row has no parsable purchase date
	})
}
