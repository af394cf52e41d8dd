// Package agents holds the registry of deployable units of the
// organization. Every pipeline stage iterates the same Registry value so
// the build, publish and verify order always match.
package agents

// ID names one agent. It doubles as the image repository name and the
// path segment of the agent's endpoints.
type ID string

func (id ID) String() string { return string(id) }

const (
	AutonatePrime    ID = "autonate-prime"
	WellnessGuardian ID = "wellness-guardian"
	RouteOracle      ID = "route-oracle"
	CustomerEmpath   ID = "customer-empath"
	CarrierVettor    ID = "carrier-vettor"
	NarrativeArtist  ID = "narrative-artist"
)

// Registry is an ordered, read-only list of agents.
type Registry struct {
	ids []ID
}

// Autonate returns the six agents of the Autonate Liberation Organization.
func Autonate() Registry {
	return New(
		AutonatePrime,
		WellnessGuardian,
		RouteOracle,
		CustomerEmpath,
		CarrierVettor,
		NarrativeArtist,
	)
}

// New builds a registry from ids, dropping duplicates while keeping the
// first occurrence's position.
func New(ids ...ID) Registry {
	seen := make(map[ID]bool, len(ids))
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return Registry{ids: out}
}

// IDs returns a copy of the registry's agents in order.
func (r Registry) IDs() []ID {
	out := make([]ID, len(r.ids))
	copy(out, r.ids)
	return out
}

func (r Registry) Len() int { return len(r.ids) }

func (r Registry) Contains(id ID) bool {
	for _, have := range r.ids {
		if have == id {
			return true
		}
	}
	return false
}
