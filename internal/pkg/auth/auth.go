// internal/pkg/auth/auth.go
package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"flashmart/internal/pkg/config"
)

// Principal 是认证协作方交付给核心的已验证身份。
// 核心只依赖 (UserID, IsAdmin)，不关心凭证是如何被验证的。
type Principal struct {
	UserID  string
	IsAdmin bool
}

// ErrUnauthenticated 表示请求没有携带有效凭证。
var ErrUnauthenticated = errors.New("auth: missing or invalid credentials")

// Verifier 验证一次 HTTP 请求的身份。
type Verifier interface {
	Verify(r *http.Request) (Principal, error)
}

// StaticTokenVerifier 用配置中的静态 bearer token 表来验证身份。
// 生产系统会换成会话或 JWT 校验，核心代码不感知这个替换。
type StaticTokenVerifier struct {
	tokens map[string]Principal
}

func NewStaticTokenVerifier(entries []config.TokenEntry) *StaticTokenVerifier {
	tokens := make(map[string]Principal, len(entries))
	for _, e := range entries {
		tokens[e.Token] = Principal{UserID: e.UserID, IsAdmin: e.Admin}
	}
	return &StaticTokenVerifier{tokens: tokens}
}

func (v *StaticTokenVerifier) Verify(r *http.Request) (Principal, error) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return Principal{}, ErrUnauthenticated
	}
	principal, found := v.tokens[token]
	if !found {
		return Principal{}, ErrUnauthenticated
	}
	return principal, nil
}

type contextKey struct{}

// WithPrincipal 把已验证身份放入 context。
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext 取出当前请求的身份。
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(Principal)
	return p, ok
}
