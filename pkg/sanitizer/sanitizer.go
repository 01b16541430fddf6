package sanitizer

import "strings"

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var (
	couponCode = Pipeline{strings.TrimSpace, strings.ToUpper}
	actorID    = Pipeline{TrimAndNormalize}
	token      = Pipeline{strings.TrimSpace, strings.ToLower}
)

// CouponCode case-folds a code; "save10" and " SAVE10 " name the same coupon.
func CouponCode(code string) string {
	return couponCode.Apply(code)
}

func ActorID(id string) string {
	return actorID.Apply(id)
}

// Token normalizes enum-like header and query values such as roles and statuses.
func Token(s string) string {
	return token.Apply(s)
}
