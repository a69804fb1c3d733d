package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bibler-backend/internal/catalog/borrowers"
	"bibler-backend/internal/platform/db"
)

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "bibler", cmd.Use)

	for _, name := range []string{"serve", "migrate", "seed", "import"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}

	flag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "c", flag.Shorthand)
	assert.Equal(t, "config/config.yaml", flag.DefValue)
}

// writeConfig points a sqlite database into a temp dir.
func writeConfig(t *testing.T) (cfgPath, dbPath string) {
	t.Helper()
	dir := t.TempDir()
	dbPath = filepath.Join(dir, "bibler.db")
	cfgPath = filepath.Join(dir, "config.yaml")
	yaml := "mode: dev\ndatabase:\n  driver: sqlite\n  path: " + dbPath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))
	return cfgPath, dbPath
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestMigrateSeedImport(t *testing.T) {
	cfgPath, dbPath := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "migrate")
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "seed")
	require.NoError(t, err)
	assert.Equal(t, "seeded\n", out)

	out, err = run(t, "--config", cfgPath, "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "nothing seeded")

	csvPath := filepath.Join(t.TempDir(), "users.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("firstname,lastname,classname\nHermine,Granger,4b\nRon,Weasley,\n"), 0o644))
	out, err = run(t, "-c", cfgPath, "import", "users", csvPath)
	require.NoError(t, err)
	assert.Equal(t, "imported 1 users\n", out)

	conn, err := db.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer conn.Close()
	n, err := borrowers.NewStore(conn).Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestImportErrors(t *testing.T) {
	cfgPath, _ := writeConfig(t)

	_, err := run(t, "--config", cfgPath, "import", "books")
	assert.Error(t, err)

	_, err = run(t, "--config", cfgPath, "import", "books", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	csvPath := filepath.Join(t.TempDir(), "x.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a\n"), 0o644))
	_, err = run(t, "--config", cfgPath, "import", "loans", csvPath)
	assert.ErrorContains(t, err, "unknown import target")
}

func TestMissingConfig(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "migrate")
	assert.ErrorContains(t, err, "read config")
}
