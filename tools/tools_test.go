package tools

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/datatypes"
)

func TestPassword(t *testing.T) {
	hash, err := PasswordEncrypt("Passw0rd!")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", hash)
	assert.True(t, PasswordCompare("Passw0rd!", hash))
	assert.False(t, PasswordCompare("passw0rd!", hash))
	assert.False(t, PasswordCompare("Passw0rd!", "not-a-hash"))
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(32)
	require.NoError(t, err)
	b, err := RandomToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.Len(t, a, 43)
	assert.NotContains(t, a, "=")

	assert.Len(t, SHA256Hex(a), 64)
	assert.Equal(t, SHA256Hex(a), SHA256Hex(a))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", SHA256Hex(""))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-09-01 ")
	require.NoError(t, err)
	require.NotNil(t, d)
	got := time.Time(*d)
	assert.Equal(t, 2025, got.Year())
	assert.Equal(t, time.September, got.Month())
	assert.Equal(t, 1, got.Day())

	d, err = ParseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	_, err = ParseDate("2025/09/01")
	assert.ErrorIs(t, err, ErrDateFormat)

	v, set, err := ParseOptionalDate(nil)
	require.NoError(t, err)
	assert.False(t, set)
	assert.Nil(t, v)

	v, set, err = ParseOptionalDate(Ptr(""))
	require.NoError(t, err)
	assert.True(t, set)
	assert.Nil(t, v)

	v, set, err = ParseOptionalDate(Ptr("2030-01-31"))
	require.NoError(t, err)
	assert.True(t, set)
	assert.IsType(t, datatypes.Date{}, v)

	_, _, err = ParseOptionalDate(Ptr("31/01/2030"))
	assert.ErrorIs(t, err, ErrDateFormat)
}

type Base struct {
	ID        uint      `excel:"编号"`
	CreatedAt time.Time `excel:"创建时间"`
}

type row struct {
	Base
	Name    string  `excel:"名称"`
	Score   int     `excel:"分数"`
	Comment *string `excel:"备注"`
	Secret  string  `excel:"-"`
	Plain   string
	hidden  string
}

func TestBuildWorkbook(t *testing.T) {
	created := time.Date(2025, 9, 1, 8, 0, 0, 0, time.Local)
	rows := []row{
		{Base: Base{ID: 1, CreatedAt: created}, Name: "a", Score: 90, Comment: Ptr("好"), Secret: "x", Plain: "p"},
		{Base: Base{ID: 2}, Name: "b", Score: 60},
	}
	data, err := BuildWorkbook(
		Sheet{Name: "数据", Rows: rows},
		Sheet{Name: "空表", Rows: []*row{}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"数据", "空表"}, f.GetSheetList())

	got, err := f.GetRows("数据")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"编号", "创建时间", "名称", "分数", "备注", "Plain"}, got[0])
	assert.Equal(t, []string{"1", "2025-09-01 08:00:00", "a", "90", "好", "p"}, got[1])
	// 零值时间和空指针写成空单元格
	assert.Equal(t, "", got[2][1])

	got, err = f.GetRows("空表")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = BuildWorkbook(Sheet{Name: "bad", Rows: []int{1}})
	assert.Error(t, err)
	_, err = BuildWorkbook(Sheet{Name: "bad", Rows: row{}})
	assert.Error(t, err)
}

func TestSendBytes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SendBytes(c, []byte("xlsx"), "简历导出.xlsx", ExcelContentType)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ExcelContentType, w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "%E7%AE%80")
	assert.Equal(t, "xlsx", w.Body.String())
}
