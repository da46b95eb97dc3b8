package web

import (
	"fmt"
	"strings"

	"github.com/go-while/go-starters/internal/router"
)

// Sample names one of the starter layouts
type Sample string

const (
	SampleRendered Sample = "rendered" // server-rendered HTML
	SampleREST     Sample = "rest"     // JSON REST endpoint
	SampleHybrid   Sample = "hybrid"   // static single-page app plus JSON API
)

// Samples lists every sample in the order the CLI shows them
var Samples = []Sample{SampleRendered, SampleREST, SampleHybrid}

// ParseSample resolves a sample name
func ParseSample(name string) (Sample, error) {
	for _, sample := range Samples {
		if strings.EqualFold(name, string(sample)) {
			return sample, nil
		}
	}
	return "", fmt.Errorf("unknown sample %q (want one of %v)", name, Samples)
}

// RenderedRoutes builds the server-rendered sample
func (s *WebServer) RenderedRoutes() *router.Router {
	r := router.NewRouter()
	r.Get("/", s.homePage)
	return r
}

// RESTRoutes builds the JSON REST sample
func (s *WebServer) RESTRoutes() *router.Router {
	r := router.NewRouter()
	r.Get("/", s.getHello)
	r.Post("/", s.postEcho)
	return r
}

// HybridRoutes builds the static+API sample. Order matters: the API
// first, then the asset root, then the index.html catch-all.
func (s *WebServer) HybridRoutes() *router.Router {
	r := router.NewRouter()
	r.Get("/api/", s.getHello)
	r.Post("/api/", s.postEcho)
	r.Static("/", s.assets)
	r.Get("*", s.sendIndex)
	return r
}
