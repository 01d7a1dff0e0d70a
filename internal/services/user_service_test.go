package services

import (
	"context"
	"errors"
	"testing"

	"newsportal/internal/models"
	"newsportal/internal/repositories"
)

type fakeUserRepo struct {
	users  map[int]*models.User
	groups map[int][]int
	perms  map[int][]string
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	f := &fakeUserRepo{users: map[int]*models.User{}, groups: map[int][]int{}, perms: map[int][]string{}}
	for _, u := range users {
		f.users[u.ID] = u
	}
	return f
}

func (f *fakeUserRepo) Create(context.Context, *models.User) error { return nil }

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByIdentifier(context.Context, string) (*models.User, error) { return nil, nil }
func (f *fakeUserRepo) CountByUsername(context.Context, string) (int, error)          { return 0, nil }
func (f *fakeUserRepo) CountByMobile(context.Context, string) (int, error)            { return 0, nil }
func (f *fakeUserRepo) TouchLastLogin(context.Context, int) error                     { return nil }

func (f *fakeUserRepo) ListActive(_ context.Context, limit, offset int) ([]*models.User, error) {
	var out []*models.User
	for id := 1; id <= len(f.users); id++ {
		if u, ok := f.users[id]; ok && u.IsActive {
			out = append(out, u)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	if offset+limit < len(out) {
		out = out[:offset+limit]
	}
	return out[offset:], nil
}

func (f *fakeUserRepo) CountActive(context.Context) (int, error) {
	n := 0
	for _, u := range f.users {
		if u.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) UpdateFlags(_ context.Context, id int, isStaff, isSuperuser, isActive bool) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsStaff, u.IsSuperuser, u.IsActive = isStaff, isSuperuser, isActive
	return nil
}

func (f *fakeUserRepo) SetGroups(_ context.Context, userID int, groupIDs []int) error {
	f.groups[userID] = groupIDs
	return nil
}

func (f *fakeUserRepo) GroupsOf(_ context.Context, userID int) ([]*models.Group, error) {
	var out []*models.Group
	for _, id := range f.groups[userID] {
		out = append(out, &models.Group{ID: id})
	}
	return out, nil
}

func (f *fakeUserRepo) Deactivate(_ context.Context, id int) error {
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.IsActive = false
	delete(f.groups, id)
	return nil
}

func (f *fakeUserRepo) PermissionCodenames(_ context.Context, userID int) ([]string, error) {
	return f.perms[userID], nil
}

type fakeGroups struct {
	groups map[int]*models.Group
	perms  []*models.Permission
	nextID int
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{
		groups: map[int]*models.Group{1: {ID: 1, Name: "editors"}},
		perms:  []*models.Permission{{ID: 1, Codename: "news.add_news"}, {ID: 2, Codename: "news.change_news"}},
		nextID: 1,
	}
}

func (f *fakeGroups) ListWithUserCounts(context.Context) ([]*models.Group, error) {
	var out []*models.Group
	for _, g := range f.groups {
		out = append(out, g)
	}
	return out, nil
}

func (f *fakeGroups) GetByID(_ context.Context, id int) (*models.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroups) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, g := range f.groups {
		if g.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeGroups) ListPermissions(context.Context) ([]*models.Permission, error) { return f.perms, nil }

func (f *fakeGroups) CountPermissions(_ context.Context, ids []int) (int, error) {
	n := 0
	for _, id := range ids {
		for _, p := range f.perms {
			if p.ID == id {
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeGroups) CountGroups(_ context.Context, ids []int) (int, error) {
	n := 0
	for _, id := range ids {
		if _, ok := f.groups[id]; ok {
			n++
		}
	}
	return n, nil
}

func (f *fakeGroups) Create(_ context.Context, name string, _ []int) (int, error) {
	f.nextID++
	f.groups[f.nextID] = &models.Group{ID: f.nextID, Name: name}
	return f.nextID, nil
}

func (f *fakeGroups) Update(_ context.Context, id int, name string, _ []int) error {
	g, ok := f.groups[id]
	if !ok {
		return repositories.ErrNotFound
	}
	g.Name = name
	return nil
}

func (f *fakeGroups) Delete(_ context.Context, id int) error {
	if _, ok := f.groups[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.groups, id)
	return nil
}

func TestUpdateUserValidatesFlagsAndGroups(t *testing.T) {
	repo := newFakeUserRepo(&models.User{ID: 1, Username: "alice", IsActive: true})
	svc := NewUserService(repo, newFakeGroups())
	ctx := context.Background()

	err := svc.UpdateUser(ctx, 1, models.UserForm{IsStaff: 2, IsActive: 1, Groups: []int{1, 9}})
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected ValidationErrors, got %v", err)
	}
	if f := verrs.Fields(); len(f) != 2 || f[0] != "is_staff" || f[1] != "groups" {
		t.Fatalf("fields = %v", f)
	}

	if err := svc.UpdateUser(ctx, 1, models.UserForm{IsStaff: 1, IsActive: 1, Groups: []int{1}}); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	u, err := svc.UserForEdit(ctx, 1)
	if err != nil {
		t.Fatalf("UserForEdit: %v", err)
	}
	if !u.IsStaff || u.IsSuperuser || len(u.Groups) != 1 {
		t.Fatalf("unexpected user: %+v", u)
	}

	if err := svc.UpdateUser(ctx, 5, models.UserForm{IsActive: 1}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUserDeactivates(t *testing.T) {
	repo := newFakeUserRepo(
		&models.User{ID: 1, Username: "alice", IsActive: true},
		&models.User{ID: 2, Username: "bobby", IsActive: true},
	)
	svc := NewUserService(repo, newFakeGroups())
	ctx := context.Background()

	if err := svc.DeleteUser(ctx, 2); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}
	page, err := svc.ListUsers(ctx, 1)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(page.Users) != 1 || page.Users[0].ID != 1 {
		t.Fatalf("unexpected users: %+v", page.Users)
	}
	if err := svc.DeleteUser(ctx, 7); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGroups(t *testing.T) {
	svc := NewUserService(newFakeUserRepo(), newFakeGroups())
	ctx := context.Background()

	if _, err := svc.CreateGroup(ctx, models.GroupForm{Name: "editors"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.CreateGroup(ctx, models.GroupForm{Name: "ops", Permissions: []int{1, 3}}); !IsValidation(err) {
		t.Fatalf("unknown permission: expected validation error, got %v", err)
	}
	id, err := svc.CreateGroup(ctx, models.GroupForm{Name: " ops ", Permissions: []int{1, 2}})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	g, err := svc.GetGroup(ctx, id)
	if err != nil || g.Name != "ops" {
		t.Fatalf("GetGroup = %+v, %v", g, err)
	}

	if err := svc.UpdateGroup(ctx, id, models.GroupForm{Name: "editors"}); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("rename to taken name: expected ErrDuplicate, got %v", err)
	}
	if err := svc.UpdateGroup(ctx, id, models.GroupForm{Name: "ops", Permissions: []int{2}}); err != nil {
		t.Fatalf("UpdateGroup keeping name: %v", err)
	}
	if err := svc.DeleteGroup(ctx, id); err != nil {
		t.Fatalf("DeleteGroup: %v", err)
	}
	if _, err := svc.GetGroup(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
