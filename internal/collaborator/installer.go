package collaborator

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// InstallPlan describes what a real installer would do, without touching the
// filesystem or network.
type InstallPlan struct {
	Version  *semver.Version
	Platform string
	Steps    []string
}

func (p InstallPlan) String() string {
	return fmt.Sprintf("would install toolchain v%s for %s", p.Version.String(), p.Platform)
}

// Installer validates a requested toolchain version and platform and
// produces the plan a real installer would execute.
type Installer struct {
	Platform string
}

// Plan validates version against semver and returns the install plan it
// would carry out. It never downloads or writes anything.
func (inst Installer) Plan(version string) (*InstallPlan, error) {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return nil, fmt.Errorf("invalid toolchain version %q: %w", version, err)
	}
	platform := inst.Platform
	if platform == "" {
		platform = "current platform"
	}
	return &InstallPlan{
		Version:  v,
		Platform: platform,
		Steps: []string{
			fmt.Sprintf("resolve toolchain release for v%s", v.String()),
			"download release archive",
			"verify checksum",
			"unpack into toolchain directory",
		},
	}, nil
}
