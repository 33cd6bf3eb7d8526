package access

import (
	"sort"
	"strings"
	"sync"

	"skill_console/internal/config"
	"skill_console/internal/model"
)

// IsRouteAllowed 空集合不限制；否则会话角色必须在集合内
func IsRouteAllowed(session *model.Session, required model.RoleSet) bool {
	if required.Empty() {
		return true
	}
	if session == nil {
		return false
	}
	return required.Contains(session.Role)
}

type Decision struct {
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// Policy 路由表加上各角色受限时的落地路径，配置热更新时整体替换
type Policy struct {
	mu       sync.RWMutex
	routes   []Route
	landing  map[model.Role]string
	fallback string
}

func NewPolicy(cfg config.AccessConfig, routes []Route) *Policy {
	p := &Policy{}
	p.setRoutes(routes)
	p.Reload(cfg)
	return p
}

func (p *Policy) setRoutes(routes []Route) {
	sorted := make([]Route, len(routes))
	copy(sorted, routes)
	// 最长前缀优先
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i].Path) > len(sorted[j].Path) })
	p.routes = sorted
}

// Reload 更新落地路径
func (p *Policy) Reload(cfg config.AccessConfig) {
	landing := make(map[model.Role]string, len(cfg.LandingPaths))
	for role, path := range cfg.LandingPaths {
		if r := model.ParseRole(role); r.Valid() && path != "" {
			landing[r] = path
		}
	}
	fallback := cfg.FallbackPath
	if fallback == "" {
		fallback = "/"
	}

	p.mu.Lock()
	p.landing = landing
	p.fallback = fallback
	p.mu.Unlock()
}

// RedirectTarget 无权访问时的跳转目标
func (p *Policy) RedirectTarget(session *model.Session) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if session != nil {
		if path, ok := p.landing[session.Role]; ok {
			return path
		}
	}
	return p.fallback
}

// Lookup 按最长前缀匹配路由，未登记的路径返回 false
func (p *Policy) Lookup(path string) (Route, bool) {
	path = normalizePath(path)
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, r := range p.routes {
		if path == r.Path || (r.Path != "/" && strings.HasPrefix(path, r.Path+"/")) {
			return r, true
		}
	}
	return Route{}, false
}

// Check 判断会话能否进入某个控制台页面
func (p *Policy) Check(session *model.Session, path string) Decision {
	route, ok := p.Lookup(path)
	if !ok {
		return Decision{Allowed: session != nil, Redirect: p.redirectIfDenied(session, session != nil)}
	}
	if route.Public {
		return Decision{Allowed: true}
	}
	if session == nil {
		return Decision{Allowed: false, Redirect: "/login"}
	}
	allowed := IsRouteAllowed(session, route.Roles)
	return Decision{Allowed: allowed, Redirect: p.redirectIfDenied(session, allowed)}
}

func (p *Policy) redirectIfDenied(session *model.Session, allowed bool) string {
	if allowed {
		return ""
	}
	if session == nil {
		return "/login"
	}
	return p.RedirectTarget(session)
}

// Navigation 当前会话可见的菜单项，保持路由表声明顺序
func (p *Policy) Navigation(session *model.Session) []NavItem {
	items := make([]NavItem, 0, len(navigation))
	if session == nil {
		return items
	}
	for _, item := range navigation {
		if IsRouteAllowed(session, item.Roles) {
			items = append(items, item)
		}
	}
	return items
}

func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
