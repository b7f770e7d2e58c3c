package user

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestValidatePasswordStrength(t *testing.T) {
	cases := []struct {
		password string
		ok       bool
	}{
		{"", false},
		{"short1!", false},
		{"allletters!", false},
		{"12345678!", false},
		{"Passw0rdxx", false},
		{"Passw0rd!", true},
		{"abc-1234", true},
	}
	for _, tc := range cases {
		err := validatePasswordStrength(tc.password)
		if tc.ok {
			assert.NoError(t, err, tc.password)
		} else {
			assert.Error(t, err, tc.password)
		}
	}
}

func TestValidateUsernameAndEmail(t *testing.T) {
	assert.NoError(t, validateUsername("alice"))
	assert.Error(t, validateUsername("al"))
	assert.Error(t, validateUsername("has space"))

	assert.NoError(t, validateEmail("alice@example.com"))
	assert.Error(t, validateEmail("not-an-email"))
	assert.Error(t, validateEmail("Alice <alice@example.com>"))
	assert.Error(t, validateEmail(""))
	assert.Error(t, validateEmail(strings.Repeat("a", 95)+"@x.com"))
}

func TestProfileUpdateEmailBinding(t *testing.T) {
	bad, good := "not-an-email", "bob@example.com"
	assert.Error(t, binding.Validator.ValidateStruct(ProfileUpdate{Email: &bad}))
	assert.NoError(t, binding.Validator.ValidateStruct(ProfileUpdate{Email: &good}))
	assert.NoError(t, binding.Validator.ValidateStruct(ProfileUpdate{}))

	// 绑定和 columns 使用同一条规则
	_, err := ProfileUpdate{Email: &bad}.columns()
	assert.Error(t, err)
}

func TestTruncateDeviceInfo(t *testing.T) {
	assert.Equal(t, "curl/8.0", truncateDeviceInfo("curl/8.0"))
	assert.Equal(t, "ab", truncateDeviceInfo("a\xffb"))

	long := truncateDeviceInfo(strings.Repeat("浏", 300))
	assert.True(t, utf8.ValidString(long))
	assert.Equal(t, maxDeviceInfo, utf8.RuneCountInString(long))
}

func TestProfileUpdateColumns(t *testing.T) {
	name := "  Bob  "
	birth := "2001-02-03"
	public := true
	stack := []string{"go", "sql"}
	cols, err := ProfileUpdate{
		Name:          &name,
		BirthDate:     &birth,
		TechStack:     &stack,
		IsMajorPublic: &public,
	}.columns()
	assert.NoError(t, err)
	assert.Equal(t, "Bob", cols["name"])
	assert.Contains(t, cols, "birth_date")
	assert.Contains(t, cols, "tech_stack")
	assert.Equal(t, true, cols["is_major_public"])
	assert.NotContains(t, cols, "email")

	bad := "03/02/2001"
	_, err = ProfileUpdate{BirthDate: &bad}.columns()
	assert.Error(t, err)

	empty := ""
	cols, err = ProfileUpdate{ProfileImage: &empty}.columns()
	assert.NoError(t, err)
	assert.Equal(t, "default_profile.png", cols["profile_image"])
}
