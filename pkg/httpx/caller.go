package httpx

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Gunvolt24/shop_checkout/internal/domain"
	"github.com/gin-gonic/gin"
)

// Заголовки, которыми шлюз передаёт уже аутентифицированного вызывающего.
const (
	HeaderCallerID   = "X-Caller-ID"
	HeaderCallerRole = "X-Caller-Role"
)

var ErrNoCaller = errors.New("caller identity is missing")

// CallerFromRequest — вызывающий из заголовков шлюза.
// Без роли считается покупателем; неизвестная роль — ошибка.
func CallerFromRequest(c *gin.Context) (domain.Caller, error) {
	identity := strings.TrimSpace(c.GetHeader(HeaderCallerID))
	if identity == "" {
		return domain.Caller{}, ErrNoCaller
	}

	rawRole := c.GetHeader(HeaderCallerRole)
	if strings.TrimSpace(rawRole) == "" {
		return domain.Caller{Identity: identity, Role: domain.RoleCustomer}, nil
	}
	role, ok := domain.ParseRole(rawRole)
	if !ok {
		return domain.Caller{}, fmt.Errorf("unknown caller role %q", rawRole)
	}
	return domain.Caller{Identity: identity, Role: role}, nil
}
