package collaborator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstallerPlanValidVersion(t *testing.T) {
	inst := Installer{Platform: "linux/amd64"}
	plan, err := inst.Plan("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", plan.Version.String())
	assert.Equal(t, "linux/amd64", plan.Platform)
	assert.NotEmpty(t, plan.Steps)
	assert.Contains(t, plan.String(), "1.2.3")
}

func TestInstallerPlanDefaultsPlatform(t *testing.T) {
	inst := Installer{}
	plan, err := inst.Plan("0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "current platform", plan.Platform)
}

func TestInstallerPlanRejectsInvalidVersion(t *testing.T) {
	inst := Installer{}
	_, err := inst.Plan("not-a-version")
	require.Error(t, err)
}

func TestInstallerPlanRejectsLooseVersion(t *testing.T) {
	// StrictNewVersion requires a full major.minor.patch triple.
	inst := Installer{}
	_, err := inst.Plan("1.2")
	require.Error(t, err)
}
