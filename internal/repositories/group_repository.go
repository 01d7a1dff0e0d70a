package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"newsportal/internal/models"
)

type GroupRepository struct{ db *sql.DB }

func NewGroupRepository(db *sql.DB) *GroupRepository { return &GroupRepository{db: db} }

// ListWithUserCounts orders groups by member count, busiest first.
func (r *GroupRepository) ListWithUserCounts(ctx context.Context) ([]*models.Group, error) {
	const q = `
		SELECT g.id, g.name, COUNT(ug.user_id) AS num_users
		FROM groups g LEFT JOIN user_groups ug ON ug.group_id = g.id
		GROUP BY g.id, g.name
		ORDER BY num_users DESC, g.id
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var res []*models.Group
	for rows.Next() {
		g := &models.Group{}
		if err := rows.Scan(&g.ID, &g.Name, &g.NumUsers); err != nil {
			return nil, err
		}
		res = append(res, g)
	}
	return res, rows.Err()
}

func (r *GroupRepository) GetByID(ctx context.Context, id int) (*models.Group, error) {
	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM groups WHERE id = $1`, id).Scan(&g.ID, &g.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}

	const q = `
		SELECT p.id, p.codename, p.name
		FROM permissions p JOIN group_permissions gp ON gp.permission_id = p.id
		WHERE gp.group_id = $1
		ORDER BY p.id
	`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, fmt.Errorf("group permissions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		p := &models.Permission{}
		if err := rows.Scan(&p.ID, &p.Codename, &p.Name); err != nil {
			return nil, err
		}
		g.Permissions = append(g.Permissions, p)
	}
	return g, rows.Err()
}

func (r *GroupRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM groups WHERE name = $1)`, name).Scan(&ok); err != nil {
		return false, fmt.Errorf("group exists: %w", err)
	}
	return ok, nil
}

func (r *GroupRepository) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, codename, name FROM permissions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()

	var res []*models.Permission
	for rows.Next() {
		p := &models.Permission{}
		if err := rows.Scan(&p.ID, &p.Codename, &p.Name); err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

// countIDs reports how many of ids refer to existing rows of table.
func (r *GroupRepository) countIDs(ctx context.Context, table string, ids []int) (int, error) {
	var n int
	q := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ANY($1::int[])`, table)
	if err := r.db.QueryRowContext(ctx, q, pq.Array(ids)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

func (r *GroupRepository) CountPermissions(ctx context.Context, ids []int) (int, error) {
	return r.countIDs(ctx, "permissions", ids)
}

func (r *GroupRepository) CountGroups(ctx context.Context, ids []int) (int, error) {
	return r.countIDs(ctx, "groups", ids)
}

func (r *GroupRepository) Create(ctx context.Context, name string, permissionIDs []int) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var id int
	err = tx.QueryRowContext(ctx, `INSERT INTO groups (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if isUniqueViolation(err) {
		return 0, ErrConflict
	}
	if err != nil {
		return 0, fmt.Errorf("create group: %w", err)
	}
	if err := replaceGroupPermissions(ctx, tx, id, permissionIDs); err != nil {
		return 0, err
	}
	return id, tx.Commit()
}

func (r *GroupRepository) Update(ctx context.Context, id int, name string, permissionIDs []int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE groups SET name = $1 WHERE id = $2`, name, id)
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return fmt.Errorf("update group: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := replaceGroupPermissions(ctx, tx, id, permissionIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceGroupPermissions(ctx context.Context, tx *sql.Tx, groupID int, permissionIDs []int) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM group_permissions WHERE group_id = $1`, groupID); err != nil {
		return fmt.Errorf("clear group permissions: %w", err)
	}
	if len(permissionIDs) == 0 {
		return nil
	}
	const q = `
		INSERT INTO group_permissions (group_id, permission_id)
		SELECT $1, p FROM UNNEST($2::int[]) AS p
	`
	if _, err := tx.ExecContext(ctx, q, groupID, pq.Array(permissionIDs)); err != nil {
		return fmt.Errorf("set group permissions: %w", err)
	}
	return nil
}

// Delete removes the group; membership and permission links cascade.
func (r *GroupRepository) Delete(ctx context.Context, id int) error {
	if err := execOne(ctx, r.db, `DELETE FROM groups WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return nil
}
