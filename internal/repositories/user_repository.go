package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"newsportal/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	CountByUsername(ctx context.Context, username string) (int, error)
	CountByMobile(ctx context.Context, mobile string) (int, error)
	TouchLastLogin(ctx context.Context, id int) error

	// admin
	ListActive(ctx context.Context, limit, offset int) ([]*models.User, error)
	CountActive(ctx context.Context) (int, error)
	UpdateFlags(ctx context.Context, id int, isStaff, isSuperuser, isActive bool) error
	SetGroups(ctx context.Context, userID int, groupIDs []int) error
	GroupsOf(ctx context.Context, userID int) ([]*models.Group, error)
	Deactivate(ctx context.Context, id int) error

	// права: прямые + через группы
	PermissionCodenames(ctx context.Context, userID int) ([]string, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, username, mobile, COALESCE(email, ''), password_hash,
	is_active, is_staff, is_superuser, last_login, date_joined`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var lastLogin sql.NullTime
	if err := row.Scan(
		&u.ID, &u.Username, &u.Mobile, &u.Email, &u.PasswordHash,
		&u.IsActive, &u.IsStaff, &u.IsSuperuser, &lastLogin, &u.DateJoined,
	); err != nil {
		return nil, err
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return u, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const q = `
		INSERT INTO users (username, mobile, email, password_hash, is_active, is_staff, is_superuser)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
		RETURNING id, date_joined
	`
	err := r.DB.QueryRowContext(ctx, q,
		user.Username,
		user.Mobile,
		user.Email,
		user.PasswordHash,
		user.IsActive,
		user.IsStaff,
		user.IsSuperuser,
	).Scan(&user.ID, &user.DateJoined)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepository) getOne(ctx context.Context, q string, arg interface{}) (*models.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx, q, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	u, err := r.getOne(ctx, `SELECT`+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByIdentifier matches either the username or the mobile number;
// a mobile match wins over a username match.
func (r *userRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	const q = ` FROM users WHERE username = $1 OR mobile = $1 ORDER BY (mobile = $1) DESC, id LIMIT 1`
	u, err := r.getOne(ctx, `SELECT`+userColumns+q, identifier)
	if err != nil {
		return nil, fmt.Errorf("get user by identifier: %w", err)
	}
	return u, nil
}

func (r *userRepository) CountByUsername(ctx context.Context, username string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE username = $1`, username).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by username: %w", err)
	}
	return n, nil
}

func (r *userRepository) CountByMobile(ctx context.Context, mobile string) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE mobile = $1`, mobile).Scan(&n); err != nil {
		return 0, fmt.Errorf("count by mobile: %w", err)
	}
	return n, nil
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id int) error {
	if _, err := r.DB.ExecContext(ctx, `UPDATE users SET last_login = NOW() WHERE id = $1`, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *userRepository) ListActive(ctx context.Context, limit, offset int) ([]*models.User, error) {
	q := `SELECT` + userColumns + ` FROM users WHERE is_active = TRUE ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, q, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE is_active = TRUE`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *userRepository) UpdateFlags(ctx context.Context, id int, isStaff, isSuperuser, isActive bool) error {
	const q = `UPDATE users SET is_staff = $1, is_superuser = $2, is_active = $3 WHERE id = $4`
	if err := execOne(ctx, r.DB, q, isStaff, isSuperuser, isActive, id); err != nil {
		return fmt.Errorf("update user flags: %w", err)
	}
	return nil
}

func (r *userRepository) SetGroups(ctx context.Context, userID int, groupIDs []int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_groups WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear user groups: %w", err)
	}
	if len(groupIDs) > 0 {
		const q = `
			INSERT INTO user_groups (user_id, group_id)
			SELECT $1, g FROM UNNEST($2::int[]) AS g
		`
		if _, err := tx.ExecContext(ctx, q, userID, pq.Array(groupIDs)); err != nil {
			return fmt.Errorf("set user groups: %w", err)
		}
	}
	return tx.Commit()
}

func (r *userRepository) GroupsOf(ctx context.Context, userID int) ([]*models.Group, error) {
	const q = `
		SELECT g.id, g.name
		FROM groups g JOIN user_groups ug ON ug.group_id = g.id
		WHERE ug.user_id = $1
		ORDER BY g.id
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("groups of user: %w", err)
	}
	defer rows.Close()

	var res []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

// Deactivate drops group and permission links and disables the account.
// The row itself is kept.
func (r *userRepository) Deactivate(ctx context.Context, id int) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_groups WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("clear groups: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM user_permissions WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("clear permissions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (r *userRepository) PermissionCodenames(ctx context.Context, userID int) ([]string, error) {
	const q = `
		SELECT p.codename FROM permissions p
		JOIN user_permissions up ON up.permission_id = p.id
		WHERE up.user_id = $1
		UNION
		SELECT p.codename FROM permissions p
		JOIN group_permissions gp ON gp.permission_id = p.id
		JOIN user_groups ug ON ug.group_id = gp.group_id
		WHERE ug.user_id = $1
	`
	rows, err := r.DB.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, fmt.Errorf("user permissions: %w", err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
