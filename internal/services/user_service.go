package services

import (
	"context"
	"log"
	"strings"
	"unicode/utf8"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

const AdminUsersPerPage = 10

type GroupStore interface {
	ListWithUserCounts(ctx context.Context) ([]*models.Group, error)
	GetByID(ctx context.Context, id int) (*models.Group, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListPermissions(ctx context.Context) ([]*models.Permission, error)
	CountPermissions(ctx context.Context, ids []int) (int, error)
	CountGroups(ctx context.Context, ids []int) (int, error)
	Create(ctx context.Context, name string, permissionIDs []int) (int, error)
	Update(ctx context.Context, id int, name string, permissionIDs []int) error
	Delete(ctx context.Context, id int) error
}

type UserPage struct {
	Users      []*models.User `json:"users"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
}

type UserService interface {
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	Permissions(ctx context.Context, userID int) ([]string, error)

	ListUsers(ctx context.Context, page int) (*UserPage, error)
	UserForEdit(ctx context.Context, id int) (*models.User, error)
	UpdateUser(ctx context.Context, id int, form models.UserForm) error
	DeleteUser(ctx context.Context, id int) error

	ListGroups(ctx context.Context) ([]*models.Group, error)
	GetGroup(ctx context.Context, id int) (*models.Group, error)
	ListPermissions(ctx context.Context) ([]*models.Permission, error)
	CreateGroup(ctx context.Context, form models.GroupForm) (int, error)
	UpdateGroup(ctx context.Context, id int, form models.GroupForm) error
	DeleteGroup(ctx context.Context, id int) error
}

type userService struct {
	repo   repositories.UserRepository
	groups GroupStore
}

func NewUserService(repo repositories.UserRepository, groups GroupStore) UserService {
	return &userService{repo: repo, groups: groups}
}

func (s *userService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *userService) Permissions(ctx context.Context, userID int) ([]string, error) {
	return s.repo.PermissionCodenames(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, page int) (*UserPage, error) {
	total, err := s.repo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	p := repositories.Paginate(total, page, AdminUsersPerPage)
	users, err := s.repo.ListActive(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Page: p.Number, TotalPages: p.TotalPages}, nil
}

func (s *userService) UserForEdit(ctx context.Context, id int) (*models.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if u.Groups, err = s.repo.GroupsOf(ctx, id); err != nil {
		return nil, err
	}
	return u, nil
}

func flag(name string, v int, errs *ValidationErrors) bool {
	if v != 0 && v != 1 {
		*errs = append(*errs, invalid(name, name+" must be 0 or 1"))
	}
	return v == 1
}

// uniqueIDs drops duplicates and non-positive ids, keeping order.
func uniqueIDs(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func (s *userService) UpdateUser(ctx context.Context, id int, form models.UserForm) error {
	var errs ValidationErrors
	isStaff := flag("is_staff", form.IsStaff, &errs)
	isSuperuser := flag("is_superuser", form.IsSuperuser, &errs)
	isActive := flag("is_active", form.IsActive, &errs)

	groupIDs := uniqueIDs(form.Groups)
	if len(groupIDs) != len(form.Groups) {
		errs = append(errs, invalid("groups", "group ids are malformed"))
	} else if len(groupIDs) > 0 {
		n, err := s.groups.CountGroups(ctx, groupIDs)
		if err != nil {
			return err
		}
		if n != len(groupIDs) {
			errs = append(errs, invalid("groups", "unknown group"))
		}
	}
	if len(errs) > 0 {
		return errs
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrNotFound
	}
	if err := s.repo.SetGroups(ctx, id, groupIDs); err != nil {
		return storeErr("set groups", err)
	}
	if err := s.repo.UpdateFlags(ctx, id, isStaff, isSuperuser, isActive); err != nil {
		return storeErr("update user", err)
	}
	log.Printf("[admin][users] updated user_id=%d staff=%v superuser=%v active=%v groups=%v",
		id, isStaff, isSuperuser, isActive, groupIDs)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, id int) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return storeErr("delete user", err)
	}
	log.Printf("[admin][users] deactivated user_id=%d", id)
	return nil
}

func (s *userService) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.groups.ListWithUserCounts(ctx)
}

func (s *userService) GetGroup(ctx context.Context, id int) (*models.Group, error) {
	g, err := s.groups.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrNotFound
	}
	return g, nil
}

func (s *userService) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	return s.groups.ListPermissions(ctx)
}

// checkGroupForm validates the name and that every permission id is known.
func (s *userService) checkGroupForm(ctx context.Context, form *models.GroupForm) error {
	form.Name = strings.TrimSpace(form.Name)
	var errs ValidationErrors
	if form.Name == "" || utf8.RuneCountInString(form.Name) > 150 {
		errs = append(errs, invalid("name", "group name must be 1-150 characters"))
	}
	perms := uniqueIDs(form.Permissions)
	if len(perms) != len(form.Permissions) {
		errs = append(errs, invalid("permissions", "permission ids are malformed"))
	} else if len(perms) > 0 {
		n, err := s.groups.CountPermissions(ctx, perms)
		if err != nil {
			return err
		}
		if n != len(perms) {
			errs = append(errs, invalid("permissions", "unknown permission"))
		}
	}
	return errs.orNil()
}

func (s *userService) CreateGroup(ctx context.Context, form models.GroupForm) (int, error) {
	if err := s.checkGroupForm(ctx, &form); err != nil {
		return 0, err
	}
	exists, err := s.groups.ExistsByName(ctx, form.Name)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, ErrDuplicate
	}
	id, err := s.groups.Create(ctx, form.Name, form.Permissions)
	if err != nil {
		return 0, storeErr("create group", err)
	}
	log.Printf("[admin][groups] created group_id=%d name=%q", id, form.Name)
	return id, nil
}

func (s *userService) UpdateGroup(ctx context.Context, id int, form models.GroupForm) error {
	if err := s.checkGroupForm(ctx, &form); err != nil {
		return err
	}
	g, err := s.GetGroup(ctx, id)
	if err != nil {
		return err
	}
	if g.Name != form.Name {
		exists, err := s.groups.ExistsByName(ctx, form.Name)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicate
		}
	}
	if err := s.groups.Update(ctx, id, form.Name, form.Permissions); err != nil {
		return storeErr("update group", err)
	}
	return nil
}

func (s *userService) DeleteGroup(ctx context.Context, id int) error {
	if err := s.groups.Delete(ctx, id); err != nil {
		return storeErr("delete group", err)
	}
	return nil
}
