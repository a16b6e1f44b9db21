package protocol

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// NUMERIC sign field values.
const (
	numericPositive uint16 = 0x0000
	numericNegative uint16 = 0x4000
	numericNaN      uint16 = 0xC000
)

var (
	bigTen         = big.NewInt(10)
	bigTenThousand = big.NewInt(10000)
)

// EncodeNumeric renders d in PostgreSQL's binary NUMERIC wire format: a
// header of four big-endian int16 fields (ndigits, weight, sign, dscale)
// followed by ndigits base-10000 digits, all prefixed with the big-endian
// int32 length the DataRow encoder expects a value's bytes to carry.
//
// Semantic value when not NaN: sign * sum(digits[i] * 10000^(weight-i)).
func EncodeNumeric(d *apd.Decimal) ([]byte, error) {
	if d.Form == apd.Infinite {
		return nil, fmt.Errorf("protocol: cannot encode infinite value as numeric")
	}
	if d.Form == apd.NaN || d.Form == apd.NaNSignaling {
		return numericBytes(nil, 0, numericNaN, 0), nil
	}

	coeff := d.Coeff.MathBigInt()
	sign := numericPositive
	if d.Negative {
		sign = numericNegative
	}

	var dscale int32
	if d.Exponent >= 0 {
		if d.Exponent > 0 {
			pow := new(big.Int).Exp(bigTen, big.NewInt(int64(d.Exponent)), nil)
			coeff = new(big.Int).Mul(coeff, pow)
		}
		dscale = 0
	} else {
		dscale = -d.Exponent
	}

	if coeff.Sign() == 0 {
		// normalise -0
		return numericBytes(nil, 0, numericPositive, uint16(dscale)), nil
	}

	scaleGroups := (dscale + 3) / 4
	pad := scaleGroups*4 - dscale
	if pad > 0 {
		padPow := new(big.Int).Exp(bigTen, big.NewInt(int64(pad)), nil)
		coeff = new(big.Int).Mul(coeff, padPow)
	}

	digits := toBase10000(coeff)
	weight := len(digits) - int(scaleGroups) - 1

	for len(digits) > 1 && digits[0] == 0 {
		digits = digits[1:]
		weight--
	}

	end := len(digits)
	for end > 1 && digits[end-1] == 0 {
		end--
	}
	digits = digits[:end]

	return numericBytes(digits, int16(weight), sign, uint16(dscale)), nil
}

// toBase10000 expresses n (n > 0) as a most-significant-first slice of
// base-10000 digits.
func toBase10000(n *big.Int) []uint16 {
	rem := new(big.Int).Set(n)
	mod := new(big.Int)
	var rev []uint16
	for rem.Sign() != 0 {
		rem.DivMod(rem, bigTenThousand, mod)
		rev = append(rev, uint16(mod.Int64()))
	}
	digits := make([]uint16, len(rev))
	for i, v := range rev {
		digits[len(rev)-1-i] = v
	}
	return digits
}

func numericBytes(digits []uint16, weight int16, sign uint16, dscale uint16) []byte {
	buf := make([]byte, 4+8+2*len(digits))
	binary.BigEndian.PutUint32(buf[0:4], uint32(8+2*len(digits)))
	binary.BigEndian.PutUint16(buf[4:6], uint16(len(digits)))
	binary.BigEndian.PutUint16(buf[6:8], uint16(weight))
	binary.BigEndian.PutUint16(buf[8:10], sign)
	binary.BigEndian.PutUint16(buf[10:12], dscale)
	for i, d := range digits {
		binary.BigEndian.PutUint16(buf[12+2*i:], d)
	}
	return buf
}
