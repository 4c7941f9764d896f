package app

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/cookcli/internal/config"
	"github.com/vk/cookcli/internal/testutil"
)

// SetupAppTest creates an App over root with default settings and a
// debug logger writing into the returned buffer.
func SetupAppTest(t *testing.T, root string) (*App, *testutil.SafeBuffer) {
	t.Helper()

	v := config.NewViper()
	v.Set(config.KeyRoot, root)
	v.Set(config.KeyLogLevel, "debug")
	cfg, err := config.Load(v)
	require.NoError(t, err)

	logBuffer := &testutil.SafeBuffer{}
	testApp, err := New(logBuffer, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		if os.Getenv("COOK_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
