package image

import (
	"testing"

	"github.com/DeganAI/Autonate/pkg/agents"
	"gotest.tools/assert"
)

func TestLocal(t *testing.T) {
	ref, err := Local("autonate", agents.WellnessGuardian, "autonate-1700000000000")
	assert.NilError(t, err)
	assert.Equal(t, ref.String(), "autonate/wellness-guardian:autonate-1700000000000")
	assert.Equal(t, ref.Repository(), "autonate/wellness-guardian")
	assert.Equal(t, ref.Tag(), "autonate-1700000000000")
}

func TestRemote(t *testing.T) {
	ref, err := Remote("autonate-liberation.compute3.ai", agents.CarrierVettor, "autonate-1")
	assert.NilError(t, err)
	assert.Equal(t, ref.String(), "autonate-liberation.compute3.ai/carrier-vettor:autonate-1")
}

func TestInvalid(t *testing.T) {
	_, err := Local("Autonate", agents.RouteOracle, "autonate-1")
	assert.ErrorContains(t, err, "invalid image name")

	_, err = Local("autonate", agents.RouteOracle, "bad tag")
	assert.ErrorContains(t, err, "invalid image tag")
}

func TestOrgReadAsRegistry(t *testing.T) {
	for _, org := range []string{"Autonate", "my.org", "localhost", "host:5000", ""} {
		t.Run(org, func(t *testing.T) {
			_, err := Local(org, agents.RouteOracle, "autonate-1")
			assert.ErrorContains(t, err, "invalid image name")
			assert.ErrorContains(t, ValidateOrg(org), "invalid image name")
		})
	}
	assert.NilError(t, ValidateOrg("autonate"))
	assert.NilError(t, ValidateOrg("team_a"))
}

func TestRemoteKeepsRegistry(t *testing.T) {
	_, err := Remote("autonate-liberation.compute3.ai", agents.RouteOracle, "bad tag")
	assert.ErrorContains(t, err, "invalid image tag")
}
