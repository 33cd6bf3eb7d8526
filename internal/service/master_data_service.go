package service

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"skill_console/internal/model"
	"skill_console/internal/repository"
	"skill_console/internal/util"
)

// ResourceSpec 控制台管理的一类主数据
type ResourceSpec struct {
	Name       string
	Path       string
	Required   []string
	ReadRoles  model.RoleSet
	WriteRoles model.RoleSet
	ReadOnly   bool
	// Normalize 为 nil 时原样返回后端数据
	Normalize func(model.Raw) any
}

type ResourceInfo struct {
	Name       string       `json:"name"`
	Required   []string     `json:"required"`
	ReadOnly   bool         `json:"readOnly"`
	ReadRoles  []model.Role `json:"readRoles"`
	WriteRoles []model.Role `json:"writeRoles"`
}

func DefaultResources() []ResourceSpec {
	adminHR := model.NewRoleSet(model.RoleAdmin, model.RoleHR)
	managers := model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleHOD)
	training := model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleTrainer)

	return []ResourceSpec{
		{
			Name:       "users",
			Path:       "/users",
			Required:   []string{"name", "email", "role"},
			ReadRoles:  managers,
			WriteRoles: adminHR,
			Normalize:  func(r model.Raw) any { return model.NormalizeEmployee(r) },
		},
		{
			Name:       "departments",
			Path:       "/departments",
			Required:   []string{"name"},
			ReadRoles:  managers,
			WriteRoles: adminHR,
			Normalize:  func(r model.Raw) any { return model.NormalizeDepartment(r) },
		},
		{
			Name:       "designations",
			Path:       "/designations",
			Required:   []string{"name"},
			ReadRoles:  managers,
			WriteRoles: adminHR,
			Normalize:  func(r model.Raw) any { return model.NormalizeDesignation(r) },
		},
		{
			Name:       "skills",
			Path:       "/skills",
			Required:   []string{"name"},
			ReadRoles:  model.NewRoleSet(model.RoleAdmin, model.RoleHR, model.RoleHOD, model.RoleTrainer),
			WriteRoles: adminHR,
			Normalize:  func(r model.Raw) any { return model.NormalizeSkill(r) },
		},
		{
			Name:       "designation-skills",
			Path:       "/designation-skills",
			Required:   []string{"designationId", "skillId", "requiredLevel"},
			ReadRoles:  managers,
			WriteRoles: adminHR,
			Normalize:  func(r model.Raw) any { return model.NormalizeDesignationSkill(r) },
		},
		{
			Name:       "user-skill-levels",
			Path:       "/user-skill-levels",
			Required:   []string{"userId", "skillId", "level"},
			ReadRoles:  managers,
			WriteRoles: managers,
			Normalize:  func(r model.Raw) any { return model.NormalizeUserSkillLevel(r) },
		},
		{
			Name:       "trainings",
			Path:       "/trainings",
			Required:   []string{"title", "startDate"},
			ReadRoles:  training,
			WriteRoles: training,
			Normalize:  func(r model.Raw) any { return model.NormalizeTraining(r) },
		},
		{
			Name:       "training-requirements",
			Path:       "/training-requirements",
			Required:   []string{"userId", "skillId"},
			ReadRoles:  managers,
			WriteRoles: managers,
			Normalize:  func(r model.Raw) any { return model.NormalizeTrainingRequirement(r) },
		},
		{
			Name:       "attendance",
			Path:       "/attendance",
			Required:   []string{"trainingId", "userId", "status"},
			ReadRoles:  training,
			WriteRoles: training,
		},
		{
			Name:      "audit-logs",
			Path:      "/audit-logs",
			ReadRoles: model.NewRoleSet(model.RoleAdmin),
			ReadOnly:  true,
		},
	}
}

// MasterDataService 主数据增删改查，全部透传到后端
type MasterDataService struct {
	specs map[string]ResourceSpec
	repos map[string]*repository.ResourceRepository
}

func NewMasterDataService(client *repository.APIClient, specs []ResourceSpec) *MasterDataService {
	s := &MasterDataService{
		specs: make(map[string]ResourceSpec, len(specs)),
		repos: make(map[string]*repository.ResourceRepository, len(specs)),
	}
	for _, spec := range specs {
		s.specs[spec.Name] = spec
		s.repos[spec.Name] = repository.NewResourceRepository(client, spec.Path)
	}
	return s
}

// Repo 其他服务复用同一个资源仓库
func (s *MasterDataService) Repo(name string) *repository.ResourceRepository {
	return s.repos[name]
}

// Resources 当前会话可读的资源
func (s *MasterDataService) Resources(session *model.Session) []ResourceInfo {
	out := make([]ResourceInfo, 0, len(s.specs))
	for _, spec := range s.specs {
		if session == nil || !spec.ReadRoles.Contains(session.Role) {
			continue
		}
		out = append(out, ResourceInfo{
			Name:       spec.Name,
			Required:   spec.Required,
			ReadOnly:   spec.ReadOnly,
			ReadRoles:  spec.ReadRoles.Roles(),
			WriteRoles: spec.WriteRoles.Roles(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *MasterDataService) authorize(session *model.Session, name string, write bool) (ResourceSpec, error) {
	spec, ok := s.specs[name]
	if !ok {
		return ResourceSpec{}, util.ErrUnknownResource
	}
	if session == nil {
		return ResourceSpec{}, util.ErrNoSession
	}
	if write {
		if spec.ReadOnly {
			return ResourceSpec{}, util.ErrReadOnlyResource
		}
		if !spec.WriteRoles.Contains(session.Role) {
			return ResourceSpec{}, util.ErrPermissionDenied
		}
		return spec, nil
	}
	if !spec.ReadRoles.Contains(session.Role) {
		return ResourceSpec{}, util.ErrPermissionDenied
	}
	return spec, nil
}

func normalizeItem(spec ResourceSpec, raw model.Raw) any {
	if spec.Normalize == nil {
		return raw
	}
	return spec.Normalize(raw)
}

func (s *MasterDataService) List(ctx context.Context, session *model.Session, token, name string, query url.Values) ([]any, error) {
	spec, err := s.authorize(session, name, false)
	if err != nil {
		return nil, err
	}
	items, err := s.repos[name].List(ctx, token, query)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = normalizeItem(spec, item)
	}
	return out, nil
}

func (s *MasterDataService) Get(ctx context.Context, session *model.Session, token, name, id string) (any, error) {
	spec, err := s.authorize(session, name, false)
	if err != nil {
		return nil, err
	}
	item, err := s.repos[name].FindByID(ctx, token, id)
	if err != nil {
		return nil, err
	}
	return normalizeItem(spec, item), nil
}

func (s *MasterDataService) Create(ctx context.Context, session *model.Session, token, name string, payload model.Raw) (any, error) {
	spec, err := s.authorize(session, name, true)
	if err != nil {
		return nil, err
	}
	if missing := MissingFields(payload, spec.Required, false); len(missing) > 0 {
		return nil, util.NewValidationError(missing...)
	}
	item, err := s.repos[name].Create(ctx, token, payload)
	if err != nil {
		return nil, err
	}
	return normalizeItem(spec, item), nil
}

func (s *MasterDataService) Update(ctx context.Context, session *model.Session, token, name, id string, payload model.Raw) (any, error) {
	spec, err := s.authorize(session, name, true)
	if err != nil {
		return nil, err
	}
	if missing := MissingFields(payload, spec.Required, true); len(missing) > 0 {
		return nil, util.NewValidationError(missing...)
	}
	item, err := s.repos[name].Update(ctx, token, id, payload)
	if err != nil {
		return nil, err
	}
	return normalizeItem(spec, item), nil
}

func (s *MasterDataService) Delete(ctx context.Context, session *model.Session, token, name, id string) error {
	if _, err := s.authorize(session, name, true); err != nil {
		return err
	}
	return s.repos[name].Delete(ctx, token, id)
}

// MissingFields 返回为空的必填字段；partial 为 true 时只检查请求中出现的字段
func MissingFields(payload model.Raw, required []string, partial bool) []string {
	var missing []string
	for _, field := range required {
		v, present := payload[field]
		if !present {
			if !partial {
				missing = append(missing, field)
			}
			continue
		}
		if isBlank(v) {
			missing = append(missing, field)
		}
	}
	return missing
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}
