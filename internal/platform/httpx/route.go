package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Route describes one endpoint. Handlers publish their routes as a static slice so the
// same table drives registration and the /debug/routes listing.
type Route struct {
	Method  string           `json:"method"`
	Pattern string           `json:"path"`
	Name    string           `json:"name"`
	Handler http.HandlerFunc `json:"-"`
}

// Mount registers routes under prefix and returns them with the prefix applied.
func Mount(r chi.Router, prefix string, routes []Route) []Route {
	mounted := make([]Route, 0, len(routes))
	for _, rt := range routes {
		pattern := prefix + rt.Pattern
		switch {
		case rt.Pattern == "/" && prefix != "":
			pattern = prefix
		case pattern == "":
			pattern = "/"
		}
		r.Method(rt.Method, pattern, rt.Handler)
		rt.Pattern = pattern
		mounted = append(mounted, rt)
	}
	return mounted
}
