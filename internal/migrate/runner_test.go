package migrate

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSplitStatements(t *testing.T) {
	script := `
-- leading comment; with a semicolon
create table a (id bigint);
insert into a values ('x;y');
`
	got := splitStatements(script)
	if len(got) != 2 {
		t.Fatalf("got %d statements: %q", len(got), got)
	}
	if got[1] != `insert into a values ('x;y')` {
		t.Fatalf("quoted semicolon split: %q", got[1])
	}
}

func TestListSQLOrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"002_users.up.sql", "001_companies.up.sql", "001_companies.down.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("select 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := listSQL(dir, upSuffix)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, f := range files {
		names = append(names, f.name)
	}
	want := []string{"001_companies.up.sql", "002_users.up.sql"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
}

func TestListSQLMissingDir(t *testing.T) {
	files, err := listSQL(filepath.Join(t.TempDir(), "absent"), upSuffix)
	if err != nil || files != nil {
		t.Fatalf("missing dir should be empty: %v %v", files, err)
	}
}
