package cronjob_test

import (
	cronjob "TreeSnap/cron"
	"TreeSnap/pkg/testutil"
	"TreeSnap/test/mocks"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const marker = "# TreeSnap cron job"

func setupCron(t *testing.T) *mocks.MockCommandExecutor {
	t.Helper()
	cmdExec := mocks.NewMockCommandExecutor()
	testutil.SetupTestGlobals(t, mocks.NewMockFileSystem(), cmdExec)

	original := cronjob.ExecutablePath
	cronjob.ExecutablePath = func() (string, error) { return "/usr/local/bin/treesnap", nil }
	t.Cleanup(func() { cronjob.ExecutablePath = original })
	return cmdExec
}

func TestValidateSchedule(t *testing.T) {
	for _, schedule := range []string{"0 9 * * *", "*/15 * * * 1-5", "@daily", "@every 1h", "@reboot"} {
		assert.NoError(t, cronjob.ValidateSchedule(schedule), schedule)
	}
	for _, schedule := range []string{"", "not a schedule", "61 * * * *", "* * *"} {
		assert.Error(t, cronjob.ValidateSchedule(schedule), schedule)
	}
}

func TestJobLine(t *testing.T) {
	line := cronjob.JobLine("0 3 * * *", "/usr/local/bin/treesnap", []string{
		"-archive", "/backups/home.zip", "-folder", "/home/me/My Documents", "-file-content", "50%",
	})
	assert.Equal(t,
		`0 3 * * * /usr/local/bin/treesnap backup -archive /backups/home.zip -folder '/home/me/My Documents' -file-content '50\%' `+marker,
		line)
}

func TestAddCronJob_NewCrontab(t *testing.T) {
	cmdExec := setupCron(t)
	cmdExec.SetCommandError("crontab -l", &mocks.ExitError{Code: 1})

	require.NoError(t, cronjob.AddCronJob("@reboot", []string{"-archive", "/b.zip"}))

	assert.Equal(t, []string{"crontab -l", "crontab -"}, cmdExec.GetExecutedCommands())
	assert.Equal(t, "@reboot /usr/local/bin/treesnap backup -archive /b.zip "+marker+"\n", cmdExec.GetStdin("crontab -"))
}

func TestAddCronJob_AppendsToExisting(t *testing.T) {
	cmdExec := setupCron(t)
	cmdExec.SetCommandOutput("crontab -l", "MAILTO=me\n0 1 * * * other-job")

	require.NoError(t, cronjob.AddCronJob("0 9 * * *", nil))

	written := cmdExec.GetStdin("crontab -")
	assert.True(t, strings.HasPrefix(written, "MAILTO=me\n0 1 * * * other-job\n"), written)
	assert.True(t, strings.HasSuffix(written, "0 9 * * * /usr/local/bin/treesnap backup "+marker+"\n"), written)
}

func TestAddCronJob_Failures(t *testing.T) {
	cmdExec := setupCron(t)

	err := cronjob.AddCronJob("every tuesday", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid cron job schedule")
	assert.Empty(t, cmdExec.GetExecutedCommands(), "crontab is not touched for a bad schedule")

	cmdExec.SetCommandError("crontab -l", &mocks.ExitError{Code: 2})
	err = cronjob.AddCronJob("@daily", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list crontab")

	cmdExec.SetCommandError("crontab -l", nil)
	cmdExec.SetCommandError("crontab -", errors.New("read-only"))
	err = cronjob.AddCronJob("@daily", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to update crontab")
}

func TestRemoveCronJob(t *testing.T) {
	cmdExec := setupCron(t)
	cmdExec.SetCommandOutput("crontab -l", strings.Join([]string{
		"0 1 * * * other-job",
		"@reboot /usr/local/bin/treesnap backup " + marker,
		"0 9 * * * /usr/local/bin/treesnap backup -archive x.zip " + marker,
		"",
	}, "\n"))

	require.NoError(t, cronjob.RemoveCronJob())
	assert.Equal(t, "0 1 * * * other-job\n", cmdExec.GetStdin("crontab -"))
}

func TestRemoveCronJob_NothingToDo(t *testing.T) {
	cmdExec := setupCron(t)
	cmdExec.SetCommandError("crontab -l", &mocks.ExitError{Code: 1})
	require.NoError(t, cronjob.RemoveCronJob())

	cmdExec.SetCommandError("crontab -l", nil)
	cmdExec.SetCommandOutput("crontab -l", "0 1 * * * other-job\n")
	require.NoError(t, cronjob.RemoveCronJob())

	for _, c := range cmdExec.GetExecutedCommands() {
		assert.NotEqual(t, "crontab -", c, "crontab must not be rewritten")
	}
}

func TestIsCronJobInstalled(t *testing.T) {
	cmdExec := setupCron(t)

	cmdExec.SetCommandError("crontab -l", &mocks.ExitError{Code: 1})
	installed, err := cronjob.IsCronJobInstalled()
	require.NoError(t, err)
	assert.False(t, installed)

	cmdExec.SetCommandError("crontab -l", nil)
	cmdExec.SetCommandOutput("crontab -l", "@daily /x backup "+marker+"\n")
	installed, err = cronjob.IsCronJobInstalled()
	require.NoError(t, err)
	assert.True(t, installed)

	cmdExec.SetCommandError("crontab -l", errors.New("crontab not found"))
	_, err = cronjob.IsCronJobInstalled()
	assert.Error(t, err)
}
