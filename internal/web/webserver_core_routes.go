package web

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"

	"github.com/go-while/go-starters/internal/bodyparse"
	"github.com/go-while/go-starters/internal/config"
	"github.com/go-while/go-starters/internal/router"
	"github.com/go-while/go-starters/internal/telemetry"
	"github.com/go-while/go-starters/internal/views"
)

// WebServer represents the web server of one sample
type WebServer struct {
	Engine    *gin.Engine
	Routes    *router.Router
	Config    *config.WebConfig
	Sample    Sample
	StartTime time.Time // when NewServer built the server

	views      *views.Renderer
	assets     fs.FS
	httpServer *http.Server
}

// NewServer creates a new web server instance serving the given sample
func NewServer(webconfig *config.WebConfig, sample Sample) (*WebServer, error) {
	if webconfig == nil {
		return nil, errors.New("missing web configuration")
	}

	// Set Gin to release mode for production
	if !webconfig.Debug && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if err := engine.SetTrustedProxies(webconfig.TrustedProxies); err != nil {
		return nil, fmt.Errorf("set trusted proxies: %w", err)
	}

	// Configure security headers based on SSL setup
	secureConfig := secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}

	// Only add SSL-specific headers if SSL is enabled on the application itself
	// (not when running behind a reverse proxy like nginx with SSL)
	if webconfig.SSL {
		secureConfig.SSLRedirect = true
		secureConfig.STSSeconds = 31536000
		secureConfig.STSIncludeSubdomains = true
	}

	server := &WebServer{
		Engine:    engine,
		Config:    webconfig,
		Sample:    sample,
		StartTime: time.Now(),
	}

	engine.Use(
		server.ApacheLogFormat(),
		gin.Recovery(),
		secure.New(secureConfig),
		server.ReverseProxyMiddleware(),
		telemetry.Middleware(),
		bodyparse.Middleware(bodyparse.Config{Limit: webconfig.BodyLimit, Debug: webconfig.Debug}),
	)

	routes, err := server.sampleRoutes()
	if err != nil {
		return nil, err
	}
	routes.Debug = webconfig.Debug
	routes.Mount(engine)
	server.Routes = routes

	// Shutdown may run before Serve, so the http.Server exists from the start
	server.httpServer = &http.Server{
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return server, nil
}

// sampleRoutes loads what the sample needs and builds its route table
func (s *WebServer) sampleRoutes() (*router.Router, error) {
	switch s.Sample {
	case SampleRendered:
		s.views = views.New(s.Config.ViewsDir)
		log.Printf("[WEB]: Using %s views", s.views.Source())
		return s.RenderedRoutes(), nil
	case SampleREST:
		return s.RESTRoutes(), nil
	case SampleHybrid:
		assets, err := s.loadAssets()
		if err != nil {
			return nil, err
		}
		s.assets = assets
		return s.HybridRoutes(), nil
	default:
		return nil, fmt.Errorf("unknown sample %q", s.Sample)
	}
}

// loadAssets returns the static asset root of the hybrid sample
func (s *WebServer) loadAssets() (fs.FS, error) {
	if s.Config.StaticDir == "" {
		log.Printf("[WEB]: Serving embedded app assets")
		if s.Config.Debug {
			if files, err := ListEmbeddedFiles(); err == nil {
				log.Printf("[WEB]: Embedded app files: %v", files)
			}
		}
		return EmbeddedAppFS()
	}
	info, err := os.Stat(s.Config.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("static dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static dir %s is not a directory", s.Config.StaticDir)
	}
	log.Printf("[WEB]: Serving app assets from %s", s.Config.StaticDir)
	return os.DirFS(s.Config.StaticDir), nil
}

// Handler returns the instrumented HTTP handler of the server
func (s *WebServer) Handler() http.Handler {
	return telemetry.Handler(s.Engine, "go-starters/"+string(s.Sample))
}

// Start starts the web server with SSL support if configured
func (s *WebServer) Start() error {
	addr := ":" + strconv.Itoa(s.Config.ListenPort)
	if s.Config.SSL && (s.Config.CertFile == "" || s.Config.KeyFile == "") {
		return errors.New("SSL enabled but cert_file or key_file not specified in config")
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
// After Shutdown it returns http.ErrServerClosed.
func (s *WebServer) Serve(ln net.Listener) error {
	if s.Config.SSL {
		log.Printf("[WEB]: Starting HTTPS server (%s sample) on %s", s.Sample, ln.Addr())
		return s.httpServer.ServeTLS(ln, s.Config.CertFile, s.Config.KeyFile)
	}
	log.Printf("[WEB]: Starting HTTP server (%s sample) on %s", s.Sample, ln.Addr())
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the server
func (s *WebServer) Shutdown(ctx context.Context) error {
	log.Printf("[WEB]: Shutting down after %s", time.Since(s.StartTime).Round(time.Second))
	return s.httpServer.Shutdown(ctx)
}

// ReverseProxyMiddleware handles X-Forwarded headers when running behind a reverse proxy
func (s *WebServer) ReverseProxyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handle X-Forwarded-Proto to detect if the original request was HTTPS
		if proto := c.GetHeader("X-Forwarded-Proto"); proto == "https" && s.trustedPeer(c) {
			c.Request.URL.Scheme = "https"
		}

		// Only rewrite the client address when the immediate peer is trusted
		if c.RemoteIP() != c.ClientIP() {
			c.Request.RemoteAddr = net.JoinHostPort(c.ClientIP(), "0")
		}

		// Handle X-Forwarded-Host to get the original host
		if host := c.GetHeader("X-Forwarded-Host"); host != "" && s.trustedPeer(c) {
			c.Request.Host = strings.TrimSpace(strings.Split(host, ",")[0])
		}

		c.Next()
	}
}

// trustedPeer reports whether the direct peer is one of the trusted proxies
func (s *WebServer) trustedPeer(c *gin.Context) bool {
	peer := net.ParseIP(c.RemoteIP())
	if peer == nil {
		return false
	}
	for _, proxy := range s.Config.TrustedProxies {
		if strings.Contains(proxy, "/") {
			if _, network, err := net.ParseCIDR(proxy); err == nil && network.Contains(peer) {
				return true
			}
			continue
		}
		if ip := net.ParseIP(proxy); ip != nil && ip.Equal(peer) {
			return true
		}
	}
	return false
}

func (s *WebServer) ApacheLogFormat() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf(`%s - - [%s] "%s %s %s" %d %d "%s" "%s"`+"\n",
			param.ClientIP,
			param.TimeStamp.Format("02/Jan/2006:15:04:05 -0700"),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.BodySize,
			param.Request.Referer(),
			param.Request.UserAgent(),
		)
	})
}
