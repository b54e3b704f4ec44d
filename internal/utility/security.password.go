package utility

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost số vòng bcrypt khi băm mật khẩu
const PasswordCost = 10

// HashPassword băm mật khẩu bằng bcrypt
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword so sánh mật khẩu với hash đã lưu
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
