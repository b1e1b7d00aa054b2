package database

import "testing"

func TestFreshDBAtLatestVersion(t *testing.T) {
	db := openTestDB(t)
	version, err := schemaVersion(db.conn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != latestVersion() {
		t.Errorf("expected version %d, got %d", latestVersion(), version)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := openTestDB(t)
	if err := migrate(db.conn); err != nil {
		t.Fatalf("re-running migrations failed: %v", err)
	}
}
