package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrUnsupportedBSONType = errors.New("money: unsupported bson type")

var hundred = decimal.NewFromInt(100)

// Amount is a currency-agnostic monetary value. The zero value is 0.
// It is stored as Decimal128 in Mongo and as a JSON number.
type Amount struct {
	d decimal.Decimal
}

var Zero = Amount{}

func New(v int64) Amount {
	return Amount{d: decimal.NewFromInt(v)}
}

func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("money: invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is meant for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Decimal() decimal.Decimal { return a.d }

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }

func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

func (a Amount) MulInt(n int64) Amount { return Amount{d: a.d.Mul(decimal.NewFromInt(n))} }

// Percent returns a × p / 100 without rounding.
func (a Amount) Percent(p decimal.Decimal) Amount {
	return Amount{d: a.d.Mul(p).Div(hundred)}
}

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) String() string { return a.d.String() }

func Min(a, b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(data []byte) error {
	return a.d.UnmarshalJSON(data)
}

func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	dec, err := primitive.ParseDecimal128(a.d.String())
	if err != nil {
		return 0, nil, fmt.Errorf("money: encode %s: %w", a.d.String(), err)
	}
	return bson.MarshalValue(dec)
}

func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		d, err := decimal.NewFromString(raw.Decimal128().String())
		if err != nil {
			return fmt.Errorf("money: decode decimal128: %w", err)
		}
		a.d = d
	case bsontype.String:
		d, err := decimal.NewFromString(raw.StringValue())
		if err != nil {
			return fmt.Errorf("money: decode string: %w", err)
		}
		a.d = d
	case bsontype.Int32:
		a.d = decimal.NewFromInt32(raw.Int32())
	case bsontype.Int64:
		a.d = decimal.NewFromInt(raw.Int64())
	case bsontype.Double:
		a.d = decimal.NewFromFloat(raw.Double())
	case bsontype.Null:
		a.d = decimal.Zero
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedBSONType, t)
	}
	return nil
}
