package model

import "fmt"

// Money is an amount in minor currency units (cents).
type Money int64

// String formats the amount in major units with two decimals, e.g. 1999 -> "19.99".
func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}
