package global

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sampleInput struct {
	Name     string `json:"name" validate:"required,notblank"`
	Username string `json:"username" validate:"omitempty,username"`
	Bio      string `json:"bio" validate:"omitempty,no_xss"`
	VideoID  string `json:"videoId" validate:"omitempty,objectid"`
}

func TestInitValidator_CustomTags(t *testing.T) {
	InitValidator()

	cases := []struct {
		name  string
		input sampleInput
		ok    bool
	}{
		{"hợp lệ", sampleInput{Name: "Lofi mix", Username: "chai_code", Bio: "hello", VideoID: "65a1f0c2e4b0a1b2c3d4e5f6"}, true},
		{"tên toàn khoảng trắng", sampleInput{Name: "   "}, false},
		{"username quá ngắn", sampleInput{Name: "a", Username: "ab"}, false},
		{"username có ký tự lạ", sampleInput{Name: "a", Username: "chai code!"}, false},
		{"bio chứa script", sampleInput{Name: "a", Bio: "<script>alert(1)</script>"}, false},
		{"videoId sai định dạng", sampleInput{Name: "a", VideoID: "123"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate.Struct(tc.input)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
