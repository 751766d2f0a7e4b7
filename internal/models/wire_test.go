package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_DecodesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []int
	}{
		{"plain array", `[1,2,3]`, []int{1, 2, 3}},
		{"reference-preserving wrapper", `{"$id":"1","$values":[4,5]}`, []int{4, 5}},
		{"null", `null`, nil},
		{"empty wrapper", `{"$values":[]}`, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got List[int]
			require.NoError(t, json.Unmarshal([]byte(tt.body), &got))
			assert.Equal(t, tt.want, []int(got))
		})
	}
}

func TestList_EncodesAsArray(t *testing.T) {
	b, err := json.Marshal(List[string]{"a", "b"})
	require.NoError(t, err)
	assert.JSONEq(t, `["a","b"]`, string(b))
}

func TestID_AcceptsNumbersAndStrings(t *testing.T) {
	var payload struct {
		A ID `json:"a"`
		B ID `json:"b"`
		C ID `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":42,"b":"ord-7","c":null}`), &payload))

	assert.Equal(t, ID("42"), payload.A)
	assert.Equal(t, ID("ord-7"), payload.B)
	assert.Equal(t, ID(""), payload.C)
}

func TestID_RejectsObjects(t *testing.T) {
	var id ID
	assert.Error(t, json.Unmarshal([]byte(`{"x":1}`), &id))
}

func TestTimestamp_Layouts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339", `"2024-10-15T14:03:05Z"`, time.Date(2024, 10, 15, 14, 3, 5, 0, time.UTC)},
		{"offset", `"2024-10-15T21:03:05+07:00"`, time.Date(2024, 10, 15, 14, 3, 5, 0, time.UTC)},
		{"zone-less with fraction", `"2024-10-15T14:03:05.1234567"`, time.Date(2024, 10, 15, 14, 3, 5, 123456700, time.UTC)},
		{"zone-less", `"2024-10-15T14:03:05"`, time.Date(2024, 10, 15, 14, 3, 5, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestOrderRecord_DecodesBackendPayload(t *testing.T) {
	body := `{
		"message": "ok",
		"data": {
			"id": 17,
			"customerName": "Walk-in Customer",
			"orderDate": "2024-10-15T14:03:05.52",
			"totalAmount": 45.5,
			"items": {"$id": "2", "$values": [
				{"id": 1, "name": "Latte", "productId": 3, "quantity": 2, "unitPrice": 12.75},
				{"id": 2, "name": "Bagel", "productId": "9", "quantity": 1, "unitPrice": 20}
			]}
		}
	}`

	var env Envelope[OrderRecord]
	require.NoError(t, json.Unmarshal([]byte(body), &env))
	require.NotNil(t, env.Data)

	rec := env.Data
	assert.Equal(t, ID("17"), rec.ID)
	assert.Equal(t, "Walk-in Customer", rec.CustomerName)
	assert.True(t, decimal.RequireFromString("45.5").Equal(rec.TotalAmount))
	require.Len(t, rec.Items, 2)
	assert.Equal(t, ID("3"), rec.Items[0].ProductID)
	assert.Equal(t, "25.50", rec.Items[0].LineTotal().StringFixed(2))
	assert.Equal(t, ID("9"), rec.Items[1].ProductID)
}

func TestCatalogItem_InStock(t *testing.T) {
	assert.True(t, CatalogItem{QuantityAvailable: 1}.InStock())
	assert.False(t, CatalogItem{QuantityAvailable: 0}.InStock())
}
