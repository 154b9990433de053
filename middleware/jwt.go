package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"vereinskasse/config"
	"vereinskasse/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// 上下文中保存当前成员的 key
const (
	ContextMemberID   = "memberID"
	ContextMemberName = "memberName"
)

var jwtSecret []byte

// Claims JWT 载荷
type Claims struct {
	MemberID uint   `json:"member_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// InitJWT 初始化签名密钥
func InitJWT(cfg *config.Config) {
	jwtSecret = []byte(cfg.JWT.Secret)
}

// GenerateToken 为成员签发 token
func GenerateToken(memberID uint, name string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID: memberID,
		Name:     name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "vereinskasse",
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}

// ParseToken 解析并校验 token
func ParseToken(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, errors.New("token 为空")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("不支持的签名算法")
		}
		return jwtSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.MemberID == 0 {
		return nil, errors.New("无效的 token")
	}
	return claims, nil
}

// JWTAuth Bearer token 认证中间件
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "not authenticated")
			return
		}

		claims, err := ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "session expired, please log in again")
			return
		}

		c.Set(ContextMemberID, claims.MemberID)
		c.Set(ContextMemberName, claims.Name)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
	c.Abort()
}

// GetCurrentUserID 当前成员 ID，未登录返回 0
func GetCurrentUserID(c *gin.Context) uint {
	if v, ok := c.Get(ContextMemberID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetCurrentIdentity 从上下文构造当前身份，未登录时为零值
func GetCurrentIdentity(c *gin.Context) service.Identity {
	id := GetCurrentUserID(c)
	if id == 0 {
		return service.Identity{}
	}
	return service.Identity{MemberID: id, Name: c.GetString(ContextMemberName)}
}
