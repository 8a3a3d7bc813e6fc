package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/jwtpizza/pkg/router"
)

func ok(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }

func TestGroupsJoinPrefixesAndMiddleware(t *testing.T) {
	var trail []string
	tag := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				trail = append(trail, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := router.New()
	api := r.Group("/api", tag("api"))
	api.Group("/franchise/", tag("franchise")).Delete("/{franchiseID}/store/{storeID}", "franchise.store.delete", ok, tag("route"))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/franchise/1/store/2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "franchise", "route"}, trail)
}

func TestNamedRouteURL(t *testing.T) {
	r := router.New()
	r.Group("/api").Put("/user/{userID}", "user.update", ok)

	url, err := r.URL("user.update", map[string]string{"userID": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/api/user/7", url)

	_, err = r.URL("user.update", nil)
	assert.Error(t, err)
	_, err = r.URL("missing", nil)
	assert.Error(t, err)
}

func TestRoutesListsEverything(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	api.Put("/auth", "auth.login", ok)
	api.Post("/auth", "auth.register", ok)
	api.Get("/franchise", "", ok)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodPost, Path: "/api/auth", Name: "auth.register"}, routes[0])
	assert.Equal(t, router.RouteInfo{Method: http.MethodPut, Path: "/api/auth", Name: "auth.login"}, routes[1])
	assert.Equal(t, "/api/franchise", routes[2].Path)
}
