package app

import (
	"strings"
	"testing"
)

func TestMigrateURLSchemeRewrite(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "postgres://u:p@localhost:5432/porter", want: "pgx5://u:p@localhost:5432/porter"},
		{in: "postgresql://localhost/porter", want: "pgx5://localhost/porter"},
		{in: "pgx5://localhost/porter", want: "pgx5://localhost/porter"},
	}

	for _, tc := range cases {
		if got := migrateURL(tc.in); got != tc.want {
			t.Fatalf("migrateURL(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}

	ups := 0
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".up.sql") {
			ups++
			down := strings.TrimSuffix(name, ".up.sql") + ".down.sql"
			if _, err := migrationsFS.ReadFile("migrations/" + down); err != nil {
				t.Errorf("missing down migration for %s", name)
			}
		}
	}
	if ups == 0 {
		t.Fatal("no up migrations embedded")
	}
}
