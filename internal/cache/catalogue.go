package cache

import (
	routeareadomain "github.com/othomas555/arocwaste/internal/routearea/domain"
)

// NewRouteCatalogueCache provides the cache backing the route catalogue read
// path. The public postcode check hits it on every request.
func NewRouteCatalogueCache() Cache[string, []routeareadomain.RouteArea] {
	return NewTTLCache[string, []routeareadomain.RouteArea]()
}
