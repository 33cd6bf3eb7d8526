package access

import "skill_console/internal/model"

// Route 控制台页面及其允许的角色
type Route struct {
	Path   string        `json:"path"`
	Roles  model.RoleSet `json:"-"`
	Public bool          `json:"public,omitempty"`
}

type NavItem struct {
	Key   string        `json:"key"`
	Label string        `json:"label"`
	Path  string        `json:"path"`
	Roles model.RoleSet `json:"-"`
}

var (
	anyRole      = model.NewRoleSet()
	adminOnly    = model.NewRoleSet(model.RoleAdmin)
	adminHR      = model.NewRoleSet(model.RoleAdmin, model.RoleHR)
	adminHRHOD   = model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleHOD)
	trainingDesk = model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleTrainer)
	hodOnly      = model.NewRoleSet(model.RoleHOD)
	employeeOnly = model.NewRoleSet(model.RoleEmployee)
)

// OrgMatrixRoles 组织矩阵页面和 /api/skill-matrix/org 接口共用
var OrgMatrixRoles = adminHRHOD

var navigation = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard", Roles: adminHR},
	{Key: "hod-matrix", Label: "Department Skill Matrix", Path: "/hod/skill-matrix", Roles: hodOnly},
	{Key: "my-skills", Label: "My Skills", Path: "/my-skills", Roles: employeeOnly},
	{Key: "users", Label: "Employees", Path: "/users", Roles: adminHR},
	{Key: "departments", Label: "Departments", Path: "/departments", Roles: adminHR},
	{Key: "designations", Label: "Designations", Path: "/designations", Roles: adminHR},
	{Key: "skills", Label: "Skills", Path: "/skills", Roles: adminHR},
	{Key: "designation-skills", Label: "Designation Skills", Path: "/designation-skills", Roles: adminHR},
	{Key: "user-skill-levels", Label: "Skill Levels", Path: "/user-skill-levels", Roles: adminHRHOD},
	{Key: "trainings", Label: "Trainings", Path: "/trainings", Roles: trainingDesk},
	{Key: "training-requirements", Label: "Training Requirements", Path: "/training-requirements", Roles: adminHRHOD},
	{Key: "attendance", Label: "Attendance", Path: "/attendance", Roles: trainingDesk},
	{Key: "training-calendar", Label: "Training Calendar", Path: "/training-calendar", Roles: adminHR},
	{Key: "skill-gap", Label: "Skill Gap Report", Path: "/skill-gap", Roles: adminHRHOD},
	{Key: "skill-matrix", Label: "Skill Matrix", Path: "/skill-matrix", Roles: adminHRHOD},
	{Key: "org-skill-matrix", Label: "Organization Matrix", Path: "/org-skill-matrix", Roles: OrgMatrixRoles},
	{Key: "reports", Label: "Reports", Path: "/reports", Roles: adminHR},
	{Key: "audit-logs", Label: "Audit Logs", Path: "/audit-logs", Roles: adminOnly},
}

// DefaultRoutes 由菜单派生页面路由，再加上公共页面
func DefaultRoutes() []Route {
	routes := []Route{
		{Path: "/login", Public: true},
		{Path: "/", Roles: anyRole},
	}
	for _, item := range navigation {
		routes = append(routes, Route{Path: item.Path, Roles: item.Roles})
	}
	return routes
}

// NavigationItems 完整菜单，供测试和文档使用
func NavigationItems() []NavItem {
	out := make([]NavItem, len(navigation))
	copy(out, navigation)
	return out
}
