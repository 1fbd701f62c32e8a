package cli

import (
	"bytes"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raymond9734/crm-backend/internal/handler"
	"github.com/Raymond9734/crm-backend/internal/service"
	"github.com/Raymond9734/crm-backend/internal/testutil"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_PATH", filepath.Join(t.TempDir(), "crm.db"))
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "crmctl", cmd.Use)

	for _, path := range [][]string{
		{"seed"},
		{"jobs", "heartbeat"},
		{"jobs", "low-stock"},
		{"jobs", "order-reminders"},
	} {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
}

func TestSeedCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	seedCmd, _, err := cmd.Find([]string{"seed"})
	require.NoError(t, err)

	assert.Equal(t, "5", seedCmd.Flags().Lookup("orders").DefValue)
	assert.NotNil(t, seedCmd.Flags().Lookup("rand-seed"))
	assert.Equal(t, "f", seedCmd.Flags().Lookup("file").Shorthand)
}

func TestSeedCommand(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "seed", "--orders", "2", "--rand-seed", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Created customer: Alice\n")
	assert.Contains(t, out, "Created product: Headphones\n")
	assert.Contains(t, out, "Created order #1 for ")
	assert.Contains(t, out, "Created order #2 for ")

	out, err = execute(t, "seed", "--orders", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "Customer already exists: Alice\n")
	assert.Contains(t, out, "Product already exists: Headphones\n")
	assert.NotContains(t, out, "Created")
}

func TestSeedCommand_File(t *testing.T) {
	useSQLite(t)

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
customers:
  - name: Eve
    email: eve@example.com
products:
  - name: Tablet
    price: "249.50"
    stock: 3
`), 0o644))

	out, err := execute(t, "seed", "--file", path, "--orders", "1", "--rand-seed", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Created customer: Eve\n")
	assert.Contains(t, out, "Created product: Tablet\n")
	assert.Contains(t, out, "Created order #1 for Eve ($249.50)\n")
}

func TestSeedCommand_BadFixtures(t *testing.T) {
	useSQLite(t)

	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	require.NoError(t, os.WriteFile(path, []byte("customers:\n  - name: Eve\n    phone: 12\n    age: 3\n"), 0o644))

	_, err := execute(t, "seed", "--file", path)
	assert.Error(t, err)

	_, err = execute(t, "seed", "--file", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "seed", "--orders", "-1")
	assert.Error(t, err)
}

func TestJobsOrderReminders(t *testing.T) {
	database := testutil.DB(t)
	logger := testutil.Logger(t)
	srv := httptest.NewServer(handler.NewRouter(
		service.New(database, logger),
		handler.NewHealthHandler(database, nil, logger),
		logger,
	))
	defer srv.Close()

	logPath := filepath.Join(t.TempDir(), "reminders.txt")
	t.Setenv("CRM_API_ENDPOINT", srv.URL)
	t.Setenv("REMINDER_LOG", logPath)

	out, err := execute(t, "jobs", "order-reminders")
	require.NoError(t, err)
	assert.Equal(t, ReminderDoneMessage+"\n", out)
}

func TestJobsOrderReminders_APIDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	url := srv.URL
	srv.Close()

	t.Setenv("CRM_API_ENDPOINT", url)
	t.Setenv("JOB_RETRIES", "0")
	t.Setenv("REMINDER_LOG", filepath.Join(t.TempDir(), "reminders.txt"))

	out, err := execute(t, "jobs", "order-reminders")
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestJobsHeartbeat(t *testing.T) {
	database := testutil.DB(t)
	logger := testutil.Logger(t)
	srv := httptest.NewServer(handler.NewRouter(
		service.New(database, logger),
		handler.NewHealthHandler(database, nil, logger),
		logger,
	))
	defer srv.Close()

	logPath := filepath.Join(t.TempDir(), "heartbeat.txt")
	t.Setenv("CRM_API_ENDPOINT", srv.URL)
	t.Setenv("HEARTBEAT_LOG", logPath)

	_, err := execute(t, "jobs", "heartbeat")
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "CRM is alive - API: "+handler.HelloGreeting)
}
