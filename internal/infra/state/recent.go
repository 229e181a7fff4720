package state

import "strings"

// PushRecent 把 v 放到列表最前（最近使用在前），去重并截断到 limit。
// v 去空白后为空时原样返回 list。
func PushRecent(list []string, v string, limit int) []string {
	v = strings.TrimSpace(v)
	if v == "" {
		return list
	}
	out := make([]string, 0, len(list)+1)
	out = append(out, v)
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return Normalize(out, limit)
}

// Normalize 去空白、去空串、去重（保留首次出现的位置）并截断到 limit。
func Normalize(list []string, limit int) []string {
	out := make([]string, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}
