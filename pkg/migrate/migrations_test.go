package migrate

import "testing"

func TestMigrationsDirValidates(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("empty dir should validate: %v", err)
	}
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Repair Audit")
	if err != nil {
		t.Fatalf("create migration: %v", err)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration failed validation (%s): %v", path, err)
	}

	if _, err := CreateSQLMigration(dir, ""); err == nil {
		t.Fatal("expected error for empty name")
	}
}
