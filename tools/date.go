package tools

import (
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
)

var ErrDateFormat = errors.New("日期格式应为 YYYY-MM-DD")

// ParseDate 解析 YYYY-MM-DD，空串返回 nil
func ParseDate(s string) (*datatypes.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return nil, ErrDateFormat
	}
	d := datatypes.Date(t)
	return &d, nil
}

// ParseOptionalDate 用于部分更新，nil 表示不修改，空串表示清空
func ParseOptionalDate(s *string) (value any, set bool, err error) {
	if s == nil {
		return nil, false, nil
	}
	d, err := ParseDate(*s)
	if err != nil {
		return nil, false, err
	}
	if d == nil {
		return nil, true, nil
	}
	return *d, true, nil
}
