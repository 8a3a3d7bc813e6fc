// Package ctx gives handlers a single request context instead of the
// (http.ResponseWriter, *http.Request) pair:
//
//	func (c *FranchiseController) DeleteStore(cx *ctx.Context) {
//	    fid, ok := cx.ParamUint("id")
//	    if !ok {
//	        return // 404 already sent
//	    }
//	    ...
//	}
//
//	router.Delete("/franchise/{id}/store/{storeID}", "franchise.store.delete", ctx.Wrap(c.DeleteStore))
package ctx

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/jwtpizza/pkg/auth"
	"github.com/shashiranjanraj/jwtpizza/pkg/bind"
	"github.com/shashiranjanraj/jwtpizza/pkg/orm"
	"github.com/shashiranjanraj/jwtpizza/pkg/response"
	"github.com/shashiranjanraj/jwtpizza/pkg/validate"
)

// HandlerFunc is the context-aware handler signature.
type HandlerFunc func(c *Context)

// Wrap converts a HandlerFunc to a standard http.HandlerFunc.
func Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := acquire(w, r)
		defer release(c)
		h(c)
	}
}

// Context wraps a request/response pair.
type Context struct {
	W http.ResponseWriter
	R *http.Request
}

var pool = sync.Pool{
	New: func() any { return &Context{} },
}

func acquire(w http.ResponseWriter, r *http.Request) *Context {
	c := pool.Get().(*Context)
	c.W = w
	c.R = r
	return c
}

func release(c *Context) {
	c.W = nil
	c.R = nil
	pool.Put(c)
}

// ─── Request helpers ──────────────────────────────────────────────────────────

// Param returns a URL path parameter.
func (c *Context) Param(key string) string {
	return chi.URLParam(c.R, key)
}

// ParamUint parses a numeric path parameter. A malformed id names no
// resource, so it answers 404 and returns false.
func (c *Context) ParamUint(key string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(key), 10, 64)
	if err != nil {
		response.NotFound(c.W)
		return 0, false
	}
	return uint(n), true
}

func (c *Context) Query(key string) string {
	return c.R.URL.Query().Get(key)
}

// QueryInt returns a numeric query value, or def when absent or malformed.
func (c *Context) QueryInt(key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return n
}

// Page reads the page and limit query values.
func (c *Context) Page() orm.Page {
	return orm.NewPage(c.QueryInt("page", 0), c.QueryInt("limit", orm.DefaultLimit))
}

// Identity returns the authenticated caller, or the anonymous identity.
func (c *Context) Identity() auth.Identity {
	id, _ := auth.IdentityFrom(c.R.Context())
	return id
}

// Token returns the bearer token the caller authenticated with.
func (c *Context) Token() string {
	t, _ := auth.TokenFrom(c.R.Context())
	return t
}

// Context returns the underlying request context.
func (c *Context) Context() context.Context { return c.R.Context() }

// ─── Binding ──────────────────────────────────────────────────────────────────

// BindJSON decodes the body into dest and validates it. Malformed JSON
// answers 400, validation failures 422. Returns true only when dest is
// ready to use.
func (c *Context) BindJSON(dest any) bool {
	errs, err := bind.JSON(c.R, dest)
	if err != nil {
		response.Error(c.W, http.StatusBadRequest, err.Error())
		return false
	}
	if validate.HasErrors(errs) {
		response.ValidationError(c.W, errs)
		return false
	}
	return true
}

// DecodeJSON only decodes the body; malformed JSON answers 400. Handlers
// whose service authorizes the caller before validating use it.
func (c *Context) DecodeJSON(dest any) bool {
	if err := bind.Decode(c.R, dest); err != nil {
		response.Error(c.W, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// ─── Response helpers ─────────────────────────────────────────────────────────

func (c *Context) JSON(code int, v any) { response.JSON(c.W, code, v) }

// Success sends v as a 200 body.
func (c *Context) Success(v any) { response.Success(c.W, v) }

// Message sends {"message": msg} with 200.
func (c *Context) Message(msg string) { response.Message(c.W, msg) }

// Fail maps err onto its status and message.
func (c *Context) Fail(err error) { response.Fail(c.W, c.R, err) }
