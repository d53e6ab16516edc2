package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	// ErrArgumentCount 参数个数与函数定义不符
	ErrArgumentCount = errors.New("argument count mismatch")

	// ErrInvalidArgument 参数无法转换为ABI类型
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNonPayableValue 非payable函数不能携带value
	ErrNonPayableValue = errors.New("non-payable method cannot override value")
)

var bigIntType = reflect.TypeOf((*big.Int)(nil))

// overrides 交易覆盖参数（params 末尾的额外对象）
type overrides struct {
	value    *big.Int
	gasLimit uint64
}

// coerceArguments 将JSON参数按函数输入定义转换为ABI编码所需的Go类型
//
// 状态变更函数允许在末尾多传一个对象作为覆盖参数 {value, gasLimit}。
func coerceArguments(fn *function, params []interface{}) ([]interface{}, *overrides, error) {
	inputs := fn.method.Inputs

	var ov *overrides
	if fn.mutating && len(params) == len(inputs)+1 {
		if obj, ok := params[len(params)-1].(map[string]interface{}); ok {
			parsed, err := parseOverrides(fn.method, obj)
			if err != nil {
				return nil, nil, err
			}
			ov = parsed
			params = params[:len(params)-1]
		}
	}

	if len(params) != len(inputs) {
		return nil, nil, fmt.Errorf("%w: %s expects %d params, got %d", ErrArgumentCount, fn.method.Sig, len(inputs), len(params))
	}

	args := make([]interface{}, len(inputs))
	for i, input := range inputs {
		v, err := coerceValue(input.Type, params[i])
		if err != nil {
			return nil, nil, fmt.Errorf("param %d (%s %s): %w", i, input.Type.String(), argName(input, i), err)
		}
		args[i] = v
	}
	return args, ov, nil
}

// parseOverrides 解析覆盖参数
func parseOverrides(method abi.Method, obj map[string]interface{}) (*overrides, error) {
	ov := &overrides{}
	for key, raw := range obj {
		switch key {
		case "value":
			v, err := toBigInt(raw)
			if err != nil {
				return nil, fmt.Errorf("overrides.value: %w", err)
			}
			if v.Sign() < 0 {
				return nil, fmt.Errorf("overrides.value: %w: negative value", ErrInvalidArgument)
			}
			if v.Sign() > 0 && !method.IsPayable() {
				return nil, fmt.Errorf("%w: %s", ErrNonPayableValue, method.Sig)
			}
			ov.value = v
		case "gasLimit":
			v, err := toBigInt(raw)
			if err != nil {
				return nil, fmt.Errorf("overrides.gasLimit: %w", err)
			}
			if v.Sign() < 0 || !v.IsUint64() {
				return nil, fmt.Errorf("overrides.gasLimit: %w: out of range", ErrInvalidArgument)
			}
			ov.gasLimit = v.Uint64()
		default:
			return nil, fmt.Errorf("%w: unsupported override %q", ErrInvalidArgument, key)
		}
	}
	return ov, nil
}

func argName(arg abi.Argument, index int) string {
	if arg.Name != "" {
		return arg.Name
	}
	return fmt.Sprintf("#%d", index)
}

// coerceValue 按ABI类型转换单个值
func coerceValue(t abi.Type, v interface{}) (interface{}, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: missing value", ErrInvalidArgument)
	}

	switch t.T {
	case abi.IntTy, abi.UintTy:
		return coerceInteger(t, v)

	case abi.BoolTy:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: expected boolean, got %T", ErrInvalidArgument, v)
		}
		return b, nil

	case abi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string, got %T", ErrInvalidArgument, v)
		}
		return s, nil

	case abi.AddressTy:
		switch x := v.(type) {
		case common.Address:
			return x, nil
		case string:
			if !common.IsHexAddress(x) {
				return nil, fmt.Errorf("%w: invalid address %q", ErrInvalidArgument, x)
			}
			return common.HexToAddress(x), nil
		default:
			return nil, fmt.Errorf("%w: expected address string, got %T", ErrInvalidArgument, v)
		}

	case abi.BytesTy:
		return toBytes(v)

	case abi.FixedBytesTy, abi.FunctionTy, abi.HashTy:
		b, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		out := reflect.New(t.GetType()).Elem()
		if len(b) != out.Len() {
			return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidArgument, out.Len(), len(b))
		}
		reflect.Copy(out, reflect.ValueOf(b))
		return out.Interface(), nil

	case abi.SliceTy:
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: expected array, got %T", ErrInvalidArgument, v)
		}
		out := reflect.MakeSlice(t.GetType(), len(items), len(items))
		if err := fillSequence(out, *t.Elem, items); err != nil {
			return nil, err
		}
		return out.Interface(), nil

	case abi.ArrayTy:
		items, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: expected array, got %T", ErrInvalidArgument, v)
		}
		if len(items) != t.Size {
			return nil, fmt.Errorf("%w: expected %d elements, got %d", ErrInvalidArgument, t.Size, len(items))
		}
		out := reflect.New(t.GetType()).Elem()
		if err := fillSequence(out, *t.Elem, items); err != nil {
			return nil, err
		}
		return out.Interface(), nil

	case abi.TupleTy:
		return coerceTuple(t, v)

	default:
		return nil, fmt.Errorf("%w: unsupported type %s", ErrInvalidArgument, t.String())
	}
}

// fillSequence 逐个转换数组元素并写入slice/array
func fillSequence(out reflect.Value, elem abi.Type, items []interface{}) error {
	for i, item := range items {
		cv, err := coerceValue(elem, item)
		if err != nil {
			return fmt.Errorf("[%d]: %w", i, err)
		}
		out.Index(i).Set(reflect.ValueOf(cv))
	}
	return nil
}

// coerceTuple 对象按组件名、数组按位置转换为结构体
func coerceTuple(t abi.Type, v interface{}) (interface{}, error) {
	out := reflect.New(t.GetType()).Elem()

	switch x := v.(type) {
	case map[string]interface{}:
		for i, elem := range t.TupleElems {
			name := t.TupleRawNames[i]
			raw, ok := x[name]
			if !ok {
				return nil, fmt.Errorf("%w: missing tuple component %q", ErrInvalidArgument, name)
			}
			cv, err := coerceValue(*elem, raw)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			out.Field(i).Set(reflect.ValueOf(cv))
		}
	case []interface{}:
		if len(x) != len(t.TupleElems) {
			return nil, fmt.Errorf("%w: expected %d tuple components, got %d", ErrInvalidArgument, len(t.TupleElems), len(x))
		}
		for i, elem := range t.TupleElems {
			cv, err := coerceValue(*elem, x[i])
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			out.Field(i).Set(reflect.ValueOf(cv))
		}
	default:
		return nil, fmt.Errorf("%w: expected object or array for tuple, got %T", ErrInvalidArgument, v)
	}
	return out.Interface(), nil
}

// coerceInteger 转换整数并检查位宽范围
// 小于等于64位且宽度为8/16/32/64的类型使用Go原生整数，其余使用*big.Int
func coerceInteger(t abi.Type, v interface{}) (interface{}, error) {
	n, err := toBigInt(v)
	if err != nil {
		return nil, err
	}

	if t.T == abi.UintTy {
		if n.Sign() < 0 || n.BitLen() > t.Size {
			return nil, fmt.Errorf("%w: value %s out of range for %s", ErrInvalidArgument, describeInteger(n), t.String())
		}
	} else {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		minValue := new(big.Int).Neg(limit)
		maxValue := new(big.Int).Sub(limit, big.NewInt(1))
		if n.Cmp(minValue) < 0 || n.Cmp(maxValue) > 0 {
			return nil, fmt.Errorf("%w: value %s out of range for %s", ErrInvalidArgument, describeInteger(n), t.String())
		}
	}

	rt := t.GetType()
	if rt == bigIntType {
		return n, nil
	}
	out := reflect.New(rt).Elem()
	if t.T == abi.UintTy {
		out.SetUint(n.Uint64())
	} else {
		out.SetInt(n.Int64())
	}
	return out.Interface(), nil
}

// toBigInt 接受JSON数字、十进制或0x十六进制字符串、Go整数
func toBigInt(v interface{}) (*big.Int, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, fmt.Errorf("%w: nil integer", ErrInvalidArgument)
		}
		return new(big.Int).Set(x), nil
	case json.Number:
		return parseIntegerString(x.String())
	case string:
		return parseIntegerString(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return nil, fmt.Errorf("%w: %v is not an integer", ErrInvalidArgument, x)
		}
		n, _ := big.NewFloat(x).Int(nil)
		return n, nil
	case int:
		return big.NewInt(int64(x)), nil
	case int64:
		return big.NewInt(x), nil
	case int32:
		return big.NewInt(int64(x)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(x)), nil
	case uint64:
		return new(big.Int).SetUint64(x), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(x)), nil
	default:
		return nil, fmt.Errorf("%w: expected integer, got %T", ErrInvalidArgument, v)
	}
}

// 整数字面量上限：int256 十进制最多78位，留出符号、前缀和指数写法的余量
const (
	maxIntegerLiteralLen = 128
	maxIntegerBits       = 256
)

// parseIntegerString 解析十进制、0x十六进制或科学计数法表示的整数
// 超过 maxIntegerBits 的值在展开前拒绝，避免 1e600000000 这类输入耗尽CPU和内存
func parseIntegerString(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("%w: empty integer", ErrInvalidArgument)
	}
	if len(s) > maxIntegerLiteralLen {
		return nil, fmt.Errorf("%w: integer literal too long (%d chars)", ErrInvalidArgument, len(s))
	}

	negative := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(s, "-")
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		hex := digits[2:]
		// 符号只能出现在0x之前
		if strings.HasPrefix(hex, "-") || strings.HasPrefix(hex, "+") {
			return nil, fmt.Errorf("%w: invalid hex integer %q", ErrInvalidArgument, s)
		}
		n, ok := new(big.Int).SetString(hex, 16)
		if !ok {
			return nil, fmt.Errorf("%w: invalid hex integer %q", ErrInvalidArgument, s)
		}
		if negative {
			n.Neg(n)
		}
		return n, nil
	}

	if n, ok := new(big.Int).SetString(s, 10); ok {
		return n, nil
	}

	// 1e18 这类写法
	f, _, err := big.ParseFloat(s, 10, 512, big.ToNearestEven)
	if err != nil || !f.IsInt() {
		return nil, fmt.Errorf("%w: invalid integer %q", ErrInvalidArgument, s)
	}
	if f.MantExp(nil) > maxIntegerBits {
		return nil, fmt.Errorf("%w: integer %q exceeds %d bits", ErrInvalidArgument, s, maxIntegerBits)
	}
	n, _ := f.Int(nil)
	return n, nil
}

// describeInteger 错误信息中的数值描述，过大的数只给出位宽
func describeInteger(n *big.Int) string {
	if n.BitLen() > maxIntegerBits {
		return fmt.Sprintf("(%d-bit integer)", n.BitLen())
	}
	return n.String()
}

// toBytes 接受0x十六进制字符串或[]byte
func toBytes(v interface{}) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		b, err := hexutil.Decode(x)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hex bytes %q: %v", ErrInvalidArgument, x, err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("%w: expected 0x-prefixed hex string, got %T", ErrInvalidArgument, v)
	}
}
