package protocol

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ACMEPrecision ACME 代币的小数位数。
const ACMEPrecision = 8

// FormatAmount 把最小单位的整数金额转成人类可读的十进制串。
// 只用于展示; 规范编码和哈希始终走整数, 这里绝不反向回流。
func FormatAmount(v *big.Int, precision int32) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -precision).String()
}
