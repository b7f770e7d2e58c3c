package model

import (
	"time"
)

// Model 自增主键表的公共字段，需要软删除的表自行添加 DeletedAt
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id" excel:"ID"`
	CreatedAt time.Time `json:"created_at" excel:"创建时间"`
	UpdatedAt time.Time `json:"updated_at" excel:"更新时间"`
}

// Page 分页参数
type Page struct {
	Page     int `form:"page" json:"page"`
	PageSize int `form:"page_size" json:"page_size"`
}

// Normalize 页码从 1 开始，默认每页 10 条，最多 100 条
func (p Page) Normalize() Page {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 10
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
	return p
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// PageResult 分页结果
type PageResult[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
}

func NewPageResult[T any](items []T, total int64, p Page) PageResult[T] {
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: (total + int64(p.PageSize) - 1) / int64(p.PageSize),
	}
}
