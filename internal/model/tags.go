package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Tags 多值标签，数据库与接口中都以逗号拼接的字符串表示
type Tags []string

const tagSeparator = ","

// ParseTags 按逗号切分，去掉首尾空白和空项
func ParseTags(s string) Tags {
	if strings.TrimSpace(s) == "" {
		return Tags{}
	}
	parts := strings.Split(s, tagSeparator)
	tags := make(Tags, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}

func (t Tags) String() string {
	clean := make([]string, 0, len(t))
	for _, tag := range t {
		// 标签自身不能包含分隔符
		tag = strings.TrimSpace(strings.ReplaceAll(tag, tagSeparator, " "))
		if tag != "" {
			clean = append(clean, tag)
		}
	}
	return strings.Join(clean, tagSeparator)
}

func (t Tags) Contains(tag string) bool {
	for _, v := range t {
		if strings.EqualFold(v, tag) {
			return true
		}
	}
	return false
}

func (t Tags) Value() (driver.Value, error) {
	return t.String(), nil
}

func (t *Tags) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Tags{}
	case string:
		*t = ParseTags(v)
	case []byte:
		*t = ParseTags(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
	return nil
}

func (t Tags) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON 兼容字符串和字符串数组两种写法
func (t *Tags) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = ParseTags(s)
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}
	*t = ParseTags(Tags(list).String())
	return nil
}
