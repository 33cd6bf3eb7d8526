package model

import "strings"

type Role string

const (
	RoleNone     Role = ""
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleHOD      Role = "HOD"
	RoleTrainer  Role = "TRAINER"
	RoleEmployee Role = "EMPLOYEE"
)

// AllRoles 按权限从高到低排列
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleHR, RoleHOD, RoleTrainer, RoleEmployee}
}

// ParseRole 不区分大小写的精确匹配，未知角色返回 RoleNone
func ParseRole(s string) Role {
	normalized := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, r := range AllRoles() {
		if r == normalized {
			return r
		}
	}
	return RoleNone
}

func (r Role) String() string {
	return string(r)
}

func (r Role) Valid() bool {
	return r != RoleNone && ParseRole(string(r)) == r
}

// RoleSet 路由或菜单允许访问的角色集合，空集合表示不限制
type RoleSet map[Role]struct{}

func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		if r.Valid() {
			set[r] = struct{}{}
		}
	}
	return set
}

func (s RoleSet) Empty() bool {
	return len(s) == 0
}

func (s RoleSet) Contains(r Role) bool {
	_, ok := s[r]
	return ok
}

// Roles 以 AllRoles 的顺序返回集合内容
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s))
	for _, r := range AllRoles() {
		if s.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}
