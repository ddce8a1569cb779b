package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"catalog_admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const exposeHeaders = "Access-Control-Expose-Headers"

// NewReverseProxy forwards catalog requests to an upstream json-server style
// API, stripping prefixToStrip from the path and passing the request id on.
func NewReverseProxy(target, prefixToStrip string, log *logrus.Logger) (*httputil.ReverseProxy, error) {
	targetURL, err := url.Parse(target)
	if err != nil || targetURL.Scheme == "" || targetURL.Host == "" {
		log.Errorf("Failed to parse upstream URL '%s': %v", target, err)
		return nil, fmt.Errorf("invalid upstream URL %q", target)
	}

	proxy := httputil.NewSingleHostReverseProxy(targetURL)

	originalDirector := proxy.Director
	proxy.Director = func(req *http.Request) {
		originalDirector(req)

		if prefixToStrip != "" && strings.HasPrefix(req.URL.Path, prefixToStrip) {
			newPath := strings.TrimPrefix(req.URL.Path, prefixToStrip)
			if !strings.HasPrefix(newPath, "/") {
				newPath = "/" + newPath
			}
			req.URL.Path = newPath
			req.URL.RawPath = ""
		}
		req.Host = targetURL.Host

		log.Debugf("Proxy Director: Forwarding to %s (request id %s)", req.URL.String(), req.Header.Get(middleware.RequestIDHeader))
	}

	proxy.ModifyResponse = func(resp *http.Response) error {
		if resp.Header.Get("X-Total-Count") != "" && !strings.Contains(resp.Header.Get(exposeHeaders), "X-Total-Count") {
			resp.Header.Add(exposeHeaders, "X-Total-Count")
		}
		return nil
	}

	proxy.ErrorHandler = func(rw http.ResponseWriter, req *http.Request, err error) {
		log.Errorf("Reverse proxy error to upstream '%s' for path '%s': %v", target, req.URL.Path, err)
		rw.Header().Set("Content-Type", "application/json; charset=utf-8")
		rw.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(rw).Encode(map[string]string{"error": "Bad Gateway"})
	}

	log.Infof("Reverse proxy created for upstream: %s (will strip prefix: '%s')", target, prefixToStrip)
	return proxy, nil
}

func ProxyHandler(p *httputil.ReverseProxy, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// RequestID already put the id on the response; forward it upstream too.
		if reqID := c.Writer.Header().Get(middleware.RequestIDHeader); reqID != "" {
			c.Request.Header.Set(middleware.RequestIDHeader, reqID)
		}
		log.Debugf("ProxyHandler: Forwarding %s %s", c.Request.Method, c.Request.URL.Path)
		p.ServeHTTP(c.Writer, c.Request)
	}
}

// RegisterRoutes proxies the catalog resources under prefix.
func RegisterRoutes(router gin.IRouter, prefix string, handler gin.HandlerFunc) {
	for _, resource := range []string{"/products", "/categories"} {
		router.Any(prefix+resource, handler)
		router.Any(prefix+resource+"/:id", handler)
	}
}

func NewGatewayRouter(p *httputil.ReverseProxy, prefix string, logger *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.RedirectTrailingSlash = false
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(), middleware.RequestLogger(logger))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	RegisterRoutes(router, prefix, ProxyHandler(p, logger))
	return router
}
