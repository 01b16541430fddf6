package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAmount_Arithmetic(t *testing.T) {
	rate := New(2000)

	assert.True(t, rate.MulInt(3).Equal(New(6000)))
	assert.True(t, New(6000).Percent(decimal.NewFromInt(10)).Equal(New(600)))
	assert.True(t, New(6000).Sub(New(600)).Equal(New(5400)))
	assert.True(t, New(333).Percent(decimal.NewFromInt(10)).Equal(MustParse("33.3")))
	assert.True(t, Min(New(100), New(50)).Equal(New(50)))
	assert.True(t, New(0).Sub(New(1)).IsNegative())
	assert.True(t, Zero.IsZero())
}

func TestAmount_JSON(t *testing.T) {
	type payload struct {
		Rate Amount `json:"rate"`
	}

	data, err := json.Marshal(payload{Rate: MustParse("1999.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"rate":1999.5}`, string(data))

	var fromNumber payload
	require.NoError(t, json.Unmarshal([]byte(`{"rate":500}`), &fromNumber))
	assert.True(t, fromNumber.Rate.Equal(New(500)))

	var fromString payload
	require.NoError(t, json.Unmarshal([]byte(`{"rate":"12.25"}`), &fromString))
	assert.True(t, fromString.Rate.Equal(MustParse("12.25")))
}

func TestAmount_BSON(t *testing.T) {
	type doc struct {
		Total Amount `bson:"total"`
	}

	data, err := bson.Marshal(doc{Total: MustParse("5400.75")})
	require.NoError(t, err)

	var decoded doc
	require.NoError(t, bson.Unmarshal(data, &decoded))
	assert.True(t, decoded.Total.Equal(MustParse("5400.75")), "got %s", decoded.Total)

	legacy, err := bson.Marshal(bson.M{"total": int64(42)})
	require.NoError(t, err)
	var fromInt doc
	require.NoError(t, bson.Unmarshal(legacy, &fromInt))
	assert.True(t, fromInt.Total.Equal(New(42)))
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse("abc")
	assert.Error(t, err)
}
