package migrate

import (
	"testing"
)

func TestDialectFor(t *testing.T) {
	t.Parallel()

	if got := dialectFor("sqlite"); got != "sqlite3" {
		t.Fatalf("unexpected dialect %q", got)
	}
	if got := dialectFor("postgres"); got != "postgres" {
		t.Fatalf("unexpected dialect %q", got)
	}
	if got := dialectFor(""); got != "postgres" {
		t.Fatalf("empty driver should default to postgres, got %q", got)
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	entries, err := migrationsFS.ReadDir(migrationsDir)
	if err != nil {
		t.Fatalf("reading embedded migrations: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 migrations, found %d", len(entries))
	}
}
