package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v)
}

func decodeJSON(r io.Reader, v interface{}) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	if _, err := dec.Token(); err != io.EOF {
		if err != nil {
			return err
		}
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

const (
	jsonFence = "```json"
	codeFence = "```"
)

// StripCodeFence 移除模型輸出外層的一個 code fence。
// 優先處理標記為 json 的 fence，其次是無標記 fence，都沒有則回傳原文。
func StripCodeFence(text string) string {
	if i := strings.Index(text, jsonFence); i >= 0 {
		return strings.TrimSpace(untilFence(text[i+len(jsonFence):]))
	}
	if i := strings.Index(text, codeFence); i >= 0 {
		return strings.TrimSpace(untilFence(text[i+len(codeFence):]))
	}
	return strings.TrimSpace(text)
}

func untilFence(s string) string {
	if j := strings.Index(s, codeFence); j >= 0 {
		return s[:j]
	}
	return s
}

// ToIndentedJSON 以兩格縮排輸出 JSON
func ToIndentedJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
