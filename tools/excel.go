package tools

import (
	"bytes"
	"fmt"
	"reflect"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet 一个工作表，Rows 必须是结构体（或结构体指针）切片
// 列名取字段的 excel 标签，标签为 "-" 的字段不导出
type Sheet struct {
	Name string
	Rows any
}

// BuildWorkbook 把多个工作表写进同一个 xlsx 文件
func BuildWorkbook(sheets ...Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, err
		}
		if err := WriteSheet(f, s.Name, s.Rows); err != nil {
			return nil, fmt.Errorf("写入工作表 %s 失败: %w", s.Name, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSheet 写表头和数据行，空切片只写表头
func WriteSheet(f *excelize.File, sheet string, data any) error {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("data %T 不是切片", data)
	}

	elemType := v.Type().Elem()
	if elemType.Kind() == reflect.Ptr {
		elemType = elemType.Elem()
	}
	if elemType.Kind() != reflect.Struct {
		return fmt.Errorf("data %T 不是结构体切片", data)
	}

	fields := excelFields(elemType, nil)

	// 写表头
	for i, fi := range fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, fi.header); err != nil {
			return err
		}
	}

	// 写数据行
	row := 2
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if elem.Kind() == reflect.Ptr {
			if elem.IsNil() {
				continue
			}
			elem = elem.Elem()
		}

		for col, fi := range fields {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(elem.FieldByIndex(fi.index))); err != nil {
				return err
			}
		}
		row++
	}
	return nil
}

type excelField struct {
	index  []int
	header string
}

func excelFields(t reflect.Type, parent []int) []excelField {
	var fields []excelField
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}

		idx := append(append([]int(nil), parent...), i)
		tag := sf.Tag.Get("excel")
		if tag == "-" {
			continue
		}
		// 嵌入的公共字段（ID、时间）展开到同一层
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			fields = append(fields, excelFields(sf.Type, idx)...)
			continue
		}
		if tag == "" {
			tag = sf.Name
		}
		fields = append(fields, excelField{index: idx, header: tag})
	}
	return fields
}

func cellValue(fv reflect.Value) any {
	if fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return ""
		}
		fv = fv.Elem()
	}
	switch val := fv.Interface().(type) {
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Local().Format(time.DateTime)
	case fmt.Stringer:
		return val.String()
	}
	if fv.Kind() == reflect.String {
		return fv.String()
	}
	return fv.Interface()
}
