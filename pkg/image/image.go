// Package image names the container images built for each agent.
package image

import (
	"github.com/DeganAI/Autonate/pkg/agents"
	"github.com/DeganAI/Autonate/pkg/deployid"
	"github.com/containerd/containerd/reference/docker"
	"github.com/pkg/errors"
)

// defaultDomain is the registry the docker CLI assumes for names without a
// host component.
const defaultDomain = "docker.io"

// Ref is a tagged image reference.
type Ref struct {
	named docker.NamedTagged
}

// String renders the reference the way the docker CLI expects it, without
// the implicit docker.io domain.
func (r Ref) String() string {
	return docker.FamiliarString(r.named)
}

// Repository is the reference without its tag.
func (r Ref) Repository() string {
	return docker.FamiliarName(r.named)
}

func (r Ref) Tag() string {
	return r.named.Tag()
}

// Local is the reference an agent image is built under: <org>/<agent>:<id>.
func Local(org string, agent agents.ID, id deployid.ID) (Ref, error) {
	if err := ValidateOrg(org); err != nil {
		return Ref{}, err
	}
	return parse(org+"/"+agent.String(), id)
}

// ValidateOrg checks that org is a single lowercase path component. Names
// the docker CLI would read as a registry host, such as "Autonate" or
// "my.org", are rejected.
func ValidateOrg(org string) error {
	name := org + "/" + agents.AutonatePrime.String()
	named, err := docker.ParseNormalizedNamed(name)
	if err != nil {
		return errors.Wrapf(err, "invalid image name %q", name)
	}
	if domain := docker.Domain(named); domain != defaultDomain {
		return errors.Errorf("invalid image name %q: org %q is read as registry %s", name, org, domain)
	}
	return nil
}

// Remote is the reference an agent image is pushed under:
// <registry>/<agent>:<id>.
func Remote(registry string, agent agents.ID, id deployid.ID) (Ref, error) {
	return parse(registry+"/"+agent.String(), id)
}

func parse(name string, id deployid.ID) (Ref, error) {
	named, err := docker.ParseNormalizedNamed(name)
	if err != nil {
		return Ref{}, errors.Wrapf(err, "invalid image name %q", name)
	}
	tagged, err := docker.WithTag(docker.TrimNamed(named), id.String())
	if err != nil {
		return Ref{}, errors.Wrapf(err, "invalid image tag %q", id)
	}
	return Ref{named: tagged}, nil
}
