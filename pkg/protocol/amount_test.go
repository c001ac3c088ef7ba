package protocol

import (
	"math/big"
	"testing"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in        string
		precision int32
		want      string
	}{
		{"500000000", 8, "5"},
		{"123456789", 8, "1.23456789"},
		{"100", 8, "0.000001"},
		{"0", 8, "0"},
		{"250", 2, "2.5"},
	}
	for _, tt := range tests {
		v, _ := new(big.Int).SetString(tt.in, 10)
		if got := FormatAmount(v, tt.precision); got != tt.want {
			t.Errorf("FormatAmount(%s, %d) = %q, 期望 %q", tt.in, tt.precision, got, tt.want)
		}
	}
	if got := FormatAmount(nil, 8); got != "0" {
		t.Errorf("nil 金额应格式化为 0, got %q", got)
	}
}
