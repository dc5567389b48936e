package util

import "strings"

const ListSep = ","

// DecodeList 拆分逗号分隔的列表，空串返回空列表而不是[""]
func DecodeList(s string) []string {
	if s == "" {
		return make([]string, 0)
	}
	return strings.Split(s, ListSep)
}
