package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/Gunvolt24/shop_checkout/internal/ports"
	"github.com/Gunvolt24/shop_checkout/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 1 << 20
)

type Handler struct {
	service    ports.CheckoutService
	log        ports.Logger
	reqTimeout time.Duration
}

// NewHandler — reqTimeout <= 0 означает «без собственного таймаута».
func NewHandler(service ports.CheckoutService, log ports.Logger, reqTimeout time.Duration) *Handler {
	return &Handler{service: service, log: log, reqTimeout: reqTimeout}
}

// NewRouter — маршруты API; otelServiceName != "" включает otelgin.
func NewRouter(h *Handler, otelServiceName string) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	if otelServiceName != "" {
		r.Use(otelgin.Middleware(otelServiceName))
	}
	r.Use(httpx.RequestIDMiddleware())
	r.Use(httpx.RequestLogger(h.log))

	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/orders", h.createOrder)
	r.GET("/orders/:id", h.getOrderByID)
	r.GET("/customers/:id/orders", h.listOrdersByCustomer)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		if allow := allowedMethods(r.Routes(), c.Request.URL.Path); allow != "" {
			c.Header("Allow", allow)
		}
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	return r
}

// requestContext — контекст запроса с таймаутом обработчика.
func (h *Handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.reqTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.reqTimeout)
}

// allowedMethods — методы, зарегистрированные для пути (с учётом :param сегментов).
func allowedMethods(routes gin.RoutesInfo, path string) string {
	var methods []string
	seen := make(map[string]struct{})
	for _, rt := range routes {
		if !matchPattern(rt.Path, path) {
			continue
		}
		if _, dup := seen[rt.Method]; dup {
			continue
		}
		seen[rt.Method] = struct{}{}
		methods = append(methods, rt.Method)
	}
	return strings.Join(methods, ", ")
}

func matchPattern(pattern, path string) bool {
	ps := strings.Split(strings.Trim(pattern, "/"), "/")
	xs := strings.Split(strings.Trim(path, "/"), "/")
	if len(ps) != len(xs) {
		return false
	}
	for i := range ps {
		if strings.HasPrefix(ps[i], ":") {
			if xs[i] == "" {
				return false
			}
			continue
		}
		if ps[i] != xs[i] {
			return false
		}
	}
	return true
}
