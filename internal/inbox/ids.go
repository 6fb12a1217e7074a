package inbox

import (
	"regexp"
	"strconv"
	"strings"
)

// idListPattern は一括操作で受け付けるIDリストの形式。
var idListPattern = regexp.MustCompile(`^[0-9,]+$`)

// ParseIDs はカンマ区切りのIDリストを解析する。
// 形式に一致しない場合はnilを返す。空要素と0は読み飛ばす。
func ParseIDs(csv string) []int64 {
	if !idListPattern.MatchString(csv) {
		return nil
	}

	var ids []int64
	for part := range strings.SplitSeq(csv, ",") {
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
