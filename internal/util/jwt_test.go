package util

import (
	"classroom_portal/internal/model"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJWT(t *testing.T) {
	user := &model.User{BaseModel: model.BaseModel{ID: 12}, Role: model.Student, Email: "amara@example.com"}

	t.Run("签发后可解析", func(t *testing.T) {
		tok, err := GenerateJWT(user, "s3cret", time.Hour)
		require.NoError(t, err)
		claims, err := ParseJWT(tok, "s3cret")
		require.NoError(t, err)
		assert.Equal(t, uint(12), claims.UserID)
		assert.Equal(t, model.Student, claims.Role)
	})

	t.Run("密钥错误", func(t *testing.T) {
		tok, err := GenerateJWT(user, "s3cret", time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(tok, "other")
		assert.Error(t, err)
	})

	t.Run("已过期", func(t *testing.T) {
		tok, err := GenerateJWT(user, "s3cret", -time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(tok, "s3cret")
		assert.Error(t, err)
	})

	t.Run("签名算法不允许", func(t *testing.T) {
		claims := &Claims{UserID: 12, Role: model.Student}
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = ParseJWT(tok, "s3cret")
		assert.Error(t, err)
	})

	t.Run("缺少角色", func(t *testing.T) {
		tok, err := GenerateJWT(&model.User{BaseModel: model.BaseModel{ID: 12}}, "s3cret", time.Hour)
		require.NoError(t, err)
		_, err = ParseJWT(tok, "s3cret")
		assert.Error(t, err)
	})
}

func TestGetUserFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetUserFromContext(c))

	c.Set(ContextUserKey, "not claims")
	assert.Nil(t, GetUserFromContext(c))

	c.Set(ContextUserKey, &Claims{UserID: 3})
	require.NotNil(t, GetUserFromContext(c))
	assert.Equal(t, uint(3), GetUserFromContext(c).UserID)
}

func TestDetectImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	mime, ext, err := DetectImage(png)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.Equal(t, ".png", ext)

	gif := []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00")
	_, ext, err = DetectImage(gif)
	require.NoError(t, err)
	assert.Equal(t, ".gif", ext)

	mime, _, err = DetectImage([]byte("just some text"))
	assert.Error(t, err)
	assert.Contains(t, mime, "text/plain")
}
