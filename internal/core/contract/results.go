package contract

import (
	"math/big"
	"reflect"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	addressType = reflect.TypeOf(common.Address{})
	hashType    = reflect.TypeOf(common.Hash{})
)

// decodeResults 将ABI解码后的返回值转换为JSON友好的形式
//
//   - 无返回值 → nil
//   - 单个返回值 → 该值本身
//   - 多个返回值 → 数组
//
// 整数统一渲染为十进制字符串，避免超出JSON数字精度。
func decodeResults(values []interface{}) interface{} {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return renderValue(values[0])
	default:
		out := make([]interface{}, len(values))
		for i, v := range values {
			out[i] = renderValue(v)
		}
		return out
	}
}

func renderValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil
		}
		return x.String()
	case common.Address:
		return x.Hex()
	case common.Hash:
		return x.Hex()
	case []byte:
		return hexutil.Encode(x)
	case string, bool:
		return x
	}
	return renderReflect(reflect.ValueOf(v))
}

func renderReflect(rv reflect.Value) interface{} {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)

	case reflect.Ptr:
		if rv.IsNil() {
			return nil
		}
		return renderValue(rv.Interface())

	case reflect.Array:
		if rv.Type() == addressType || rv.Type() == hashType {
			return renderValue(rv.Interface())
		}
		// bytesN
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return hexutil.Encode(b)
		}
		return renderSequence(rv)

	case reflect.Slice:
		if rv.IsNil() {
			return []interface{}{}
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return hexutil.Encode(rv.Bytes())
		}
		return renderSequence(rv)

	case reflect.Struct:
		// 元组：按组件名输出对象
		rt := rv.Type()
		out := make(map[string]interface{}, rt.NumField())
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}
			out[fieldName(field)] = renderValue(rv.Field(i).Interface())
		}
		return out

	case reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return renderValue(rv.Elem().Interface())

	default:
		return rv.Interface()
	}
}

func renderSequence(rv reflect.Value) []interface{} {
	out := make([]interface{}, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		out[i] = renderValue(rv.Index(i).Interface())
	}
	return out
}

// fieldName 优先使用ABI原始组件名（go-ethereum写在json tag中）
func fieldName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name := strings.Split(tag, ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return field.Name
}
