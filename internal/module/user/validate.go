package user

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// validate 与 gin 绑定时使用同一套规则
var validate = validator.New()

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 50 {
		return errors.New("用户名长度应为 3 到 50 个字符")
	}
	if strings.ContainsAny(username, " \t\r\n") {
		return errors.New("用户名不能包含空白字符")
	}
	return nil
}

func validateEmail(email string) error {
	if len(email) > 100 {
		return errors.New("邮箱过长")
	}
	if err := validate.Var(email, "required,email"); err != nil {
		return errors.New("邮箱格式错误")
	}
	return nil
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if password == "" {
		return errors.New("密码不能为空")
	}
	if len(password) < 8 {
		return errors.New("密码长度必须至少8字符")
	}
	if len(password) > 72 {
		return errors.New("密码长度不能超过72字节")
	}

	hasLetter, hasDigit, hasSpecial := false, false, false
	specialChars := "!@#$%^&*-_.?"

	for _, char := range password {
		switch {
		case char >= 'a' && char <= 'z', char >= 'A' && char <= 'Z':
			hasLetter = true
		case char >= '0' && char <= '9':
			hasDigit = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	if !hasLetter {
		return errors.New("密码必须包含至少一个字母")
	}
	if !hasDigit {
		return errors.New("密码必须包含至少一个数字")
	}
	if !hasSpecial {
		return errors.New("密码必须包含至少一个特殊字符（" + specialChars + "）")
	}
	return nil
}
