package contract

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestDecodeResults_Shape(t *testing.T) {
	assert.Nil(t, decodeResults(nil))
	assert.Nil(t, decodeResults([]interface{}{}))
	assert.Equal(t, "42", decodeResults([]interface{}{big.NewInt(42)}))
	assert.Equal(t, []interface{}{"1", true}, decodeResults([]interface{}{big.NewInt(1), true}))
}

func TestRenderValue(t *testing.T) {
	addr := common.HexToAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")

	tests := []struct {
		name  string
		input interface{}
		want  interface{}
	}{
		{name: "大整数渲染为十进制字符串", input: mustBig("115792089237316195423570985008687907853269984665640564039457584007913129639935"), want: "115792089237316195423570985008687907853269984665640564039457584007913129639935"},
		{name: "负数", input: big.NewInt(-7), want: "-7"},
		{name: "uint8", input: uint8(7), want: "7"},
		{name: "int32", input: int32(-3), want: "-3"},
		{name: "uint64", input: uint64(18446744073709551615), want: "18446744073709551615"},
		{name: "地址为校验和格式", input: addr, want: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"},
		{name: "bytes", input: []byte{0xca, 0xfe}, want: "0xcafe"},
		{name: "空bytes", input: []byte{}, want: "0x"},
		{name: "bytes4", input: [4]byte{0, 1, 2, 3}, want: "0x00010203"},
		{name: "字符串", input: "hello", want: "hello"},
		{name: "布尔", input: false, want: false},
		{name: "动态数组", input: []*big.Int{big.NewInt(1), big.NewInt(2)}, want: []interface{}{"1", "2"}},
		{name: "空数组", input: []common.Address(nil), want: []interface{}{}},
		{name: "定长数组", input: [2]bool{true, false}, want: []interface{}{true, false}},
		{name: "nil big.Int", input: (*big.Int)(nil), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderValue(tt.input))
		})
	}
}

func TestRenderValue_Tuple(t *testing.T) {
	value := struct {
		Owner   common.Address `json:"owner"`
		Balance *big.Int       `json:"balance"`
		Tags    []string       `json:"tags"`
		Plain   uint16
	}{
		Owner:   common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC"),
		Balance: big.NewInt(99),
		Tags:    []string{"a"},
		Plain:   5,
	}

	assert.Equal(t, map[string]interface{}{
		"owner":   "0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC",
		"balance": "99",
		"tags":    []interface{}{"a"},
		"Plain":   "5",
	}, renderValue(value))
}
