// Package router names the dashboard's destinations and guards every
// transition between them.
package router

import (
	"strings"
)

// Route names. Public ones are reachable without a session.
const (
	Dashboard    = "dashboard"
	ProductList  = "ProductList"
	AddProduct   = "Add_Product"
	EditProduct  = "Edit_Product"
	Categories   = "Categories"
	AddCategory  = "Add_Category"
	EditCategory = "Edit_Category"
	LoginPage    = "Login"
	Register     = "Register"
	Landing      = "landing"
	NotFound     = "notfound"
	Login        = "login"
	AccessDenied = "accessDenied"
	Error        = "error"
)

// LoginPath is where unauthenticated navigation is sent.
const LoginPath = "/auth/login"

// Route is a resolved destination.
type Route struct {
	Name    string
	Path    string
	Pattern string
	Params  map[string]string
}

// Param returns a path parameter, or "".
func (r Route) Param(key string) string {
	return r.Params[key]
}

type routeDef struct {
	name    string
	pattern string
}

var routeTable = []routeDef{
	{Dashboard, "/"},
	{ProductList, "/Product/ProductList"},
	{AddProduct, "/Product/Add_Product"},
	{EditProduct, "/Product/Edit_Product/:id"},
	{Categories, "/Category/Categories"},
	{AddCategory, "/Category/Add_Category"},
	{EditCategory, "/Category/Edit_Category/:id"},
	{LoginPage, "/pages/auth/Login"},
	{Register, "/pages/auth/Register"},
	{Landing, "/landing"},
	{NotFound, "/pages/notfound"},
	{Login, LoginPath},
	{AccessDenied, "/auth/access"},
	{Error, "/auth/error"},
}

var publicRoutes = map[string]bool{
	Login:     true,
	LoginPage: true,
	Register:  true,
	Landing:   true,
	NotFound:  true,
}

// IsPublic reports whether the named route skips the authorization gate.
func IsPublic(name string) bool {
	return publicRoutes[name]
}

// Resolve turns a route name or a path into a Route. Names are matched
// exactly; paths may carry ":param" segments. Anything else yields an unnamed
// route carrying the target as its path, which the guard treats as protected.
func Resolve(target string) Route {
	if r, ok := lookup(target); ok {
		return r
	}
	return Route{Path: target}
}

// Matched reports whether the route came from the route table.
func (r Route) Matched() bool {
	return r.Name != ""
}

func lookup(target string) (Route, bool) {
	if !strings.HasPrefix(target, "/") {
		for _, d := range routeTable {
			if d.name == target && !strings.Contains(d.pattern, ":") {
				return Route{Name: d.name, Path: d.pattern, Pattern: d.pattern}, true
			}
		}
		return Route{}, false
	}
	path := target
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	for _, d := range routeTable {
		if params, ok := match(d.pattern, path); ok {
			return Route{Name: d.name, Path: path, Pattern: d.pattern, Params: params}, true
		}
	}
	return Route{}, false
}

// match compares a pattern like /a/:id against a concrete path.
func match(pattern, path string) (map[string]string, bool) {
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	sp := strings.Split(strings.Trim(path, "/"), "/")
	if len(pp) != len(sp) {
		return nil, false
	}
	var params map[string]string
	for i, seg := range pp {
		if strings.HasPrefix(seg, ":") {
			if sp[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[seg[1:]] = sp[i]
			continue
		}
		if seg != sp[i] {
			return nil, false
		}
	}
	return params, true
}

// PathFor builds the concrete path of a parameterised route.
func PathFor(name string, params map[string]string) string {
	for _, d := range routeTable {
		if d.name != name {
			continue
		}
		segs := strings.Split(d.pattern, "/")
		for i, seg := range segs {
			if strings.HasPrefix(seg, ":") {
				segs[i] = params[seg[1:]]
			}
		}
		return strings.Join(segs, "/")
	}
	return ""
}

func mustName(name string) Route {
	r, ok := lookup(name)
	if !ok {
		panic("router: unknown route " + name)
	}
	return r
}
