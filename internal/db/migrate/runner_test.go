package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"newsportal/internal/db"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		if err := Run(dsn, "up"); err == nil {
			t.Fatalf("Run(%q) should fail", dsn)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, dir := range []string{"", "UP", "Down", "sideways"} {
		err := Run("postgres://localhost/newsportal", dir)
		if err == nil || !strings.Contains(err.Error(), "direction") {
			t.Fatalf("direction %q: expected direction error, got %v", dir, err)
		}
	}
}

// каждая up-миграция должна иметь парную down
func TestMigrationFS_Paired(t *testing.T) {
	names, err := fs.Glob(db.MigrationFS, "migrations/*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	for _, n := range names {
		if strings.HasSuffix(n, ".up.sql") {
			down := strings.TrimSuffix(n, ".up.sql") + ".down.sql"
			if !set[down] {
				t.Errorf("%s has no %s", n, down)
			}
		}
	}
}
