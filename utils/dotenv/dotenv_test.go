package dotenv

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModuleRootHoldsGoMod(t *testing.T) {
	root, err := moduleRoot()
	require.NoError(t, err)

	// must hold no matter what the checkout directory is called
	_, err = os.Stat(filepath.Join(root, "go.mod"))
	require.NoError(t, err)
}

func TestEnvDefaultsToDev(t *testing.T) {
	orig := os.Getenv("DORFNET_ENV")
	defer os.Setenv("DORFNET_ENV", orig)

	os.Setenv("DORFNET_ENV", "")
	require.Equal(t, DevEnv, Env())
	os.Setenv("DORFNET_ENV", ProdEnv)
	require.Equal(t, ProdEnv, Env())
}
