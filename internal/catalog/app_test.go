package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	cfg := `log:
  output-paths:
    - stdout
    - /var/log/catalog.log
mongo:
  host: db.internal
http:
  addr: ":9090"
`
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	cmd := NewCommand()
	require.NoError(t, loadConfig(cmd, path))

	// List-valued keys keep every element instead of collapsing to "".
	assert.Equal(t, "[stdout,/var/log/catalog.log]",
		cmd.Flags().Lookup("log.output-paths").Value.String())
	assert.Equal(t, "db.internal", cmd.Flags().Lookup("mongo.host").Value.String())
	assert.Equal(t, ":9090", cmd.Flags().Lookup("http.addr").Value.String())
}

func TestLoadConfigExplicitFlagWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mongo:\n  host: db.internal\n"), 0o600))

	cmd := NewCommand()
	require.NoError(t, cmd.Flags().Set("mongo.host", "cli.override"))
	require.NoError(t, loadConfig(cmd, path))

	assert.Equal(t, "cli.override", cmd.Flags().Lookup("mongo.host").Value.String())
}

func TestLoadConfigEnvironment(t *testing.T) {
	t.Setenv("SHOPSTACK_MONGO_DATABASE", "catalog_prod")

	cmd := NewCommand()
	require.NoError(t, loadConfig(cmd, ""))

	assert.Equal(t, "catalog_prod", cmd.Flags().Lookup("mongo.database").Value.String())
}

func TestLoadConfigMissingFile(t *testing.T) {
	cmd := NewCommand()
	assert.Error(t, loadConfig(cmd, filepath.Join(t.TempDir(), "nope.yaml")))
}
