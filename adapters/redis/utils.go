package redis

import (
	"encoding/base64"
	"errors"
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack/v5"
)

// messageField 是 stream entry 中存放資料的欄位
const messageField = "data"

var ErrPointerType = errors.New("pointer type is not allowed")

// EncodeMessage 將 struct 以 msgpack 序列化並 base64 編碼後放入 stream entry
// 讀取端需以 msgpack 解碼 data 欄位 base64 解開後的內容
func EncodeMessage[T any](data T) (map[string]any, error) {
	if reflect.TypeOf(data).Kind() == reflect.Ptr {
		return nil, ErrPointerType
	}
	bytes, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("msgpack marshal error: %w", err)
	}
	return map[string]any{
		messageField: base64.StdEncoding.EncodeToString(bytes),
	}, nil
}
