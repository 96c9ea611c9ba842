package merge

import "github.com/dusk-indust/catmerge/internal/catalog"

// Identity is the key records are matched on. Two-field identities match
// only when both fields are equal.
type Identity struct {
	Primary   string
	Secondary string
	paired    bool
}

// Key returns a single-field identity.
func Key(id string) Identity {
	return Identity{Primary: id}
}

// PairKey returns a two-field identity.
func PairKey(primary, secondary string) Identity {
	return Identity{Primary: primary, Secondary: secondary, paired: true}
}

// String renders the identity the way the audit lists report it:
// "id" or "feature of engine".
func (id Identity) String() string {
	if !id.paired {
		return id.Primary
	}
	return id.Primary + " of " + id.Secondary
}

// Report is the audit trail of one merge. Added holds identities taken
// from the older side, Replaced identities where the newer side won, and
// Merged tree nodes present on both sides whose children were reconciled.
type Report struct {
	Added    []string
	Replaced []string
	Merged   []string
}

// Flat merges two flat collections. The result starts as the newer
// collection in order; each older record whose identity does not occur in
// newer is appended. Older records that do occur are dropped whole.
func Flat[T any](older, newer []T, identify func(T) Identity) ([]T, Report) {
	var rep Report

	present := make(map[Identity]struct{}, len(newer))
	for _, rec := range newer {
		present[identify(rec)] = struct{}{}
	}

	out := make([]T, 0, len(newer)+len(older))
	out = append(out, newer...)
	for _, rec := range older {
		id := identify(rec)
		if _, ok := present[id]; ok {
			rep.Replaced = append(rep.Replaced, id.String())
			continue
		}
		out = append(out, rec)
		rep.Added = append(rep.Added, id.String())
	}
	return out, rep
}

// EngineIdentity identifies engines by id.
func EngineIdentity(e catalog.Engine) Identity {
	return Key(e.ID)
}

// IndependentIdentity identifies engine-independent tests by feature.
func IndependentIdentity(t catalog.IndependentTest) Identity {
	return Key(t.FeatureID)
}

// DependentIdentity identifies engine-dependent tests by feature and engine.
func DependentIdentity(t catalog.DependentTest) Identity {
	return PairKey(t.FeatureID, t.EngineID)
}

// Engines merges two engine registries.
func Engines(older, newer []catalog.Engine) ([]catalog.Engine, Report) {
	return Flat(older, newer, EngineIdentity)
}

// IndependentTests merges two engine-independent test collections.
func IndependentTests(older, newer []catalog.IndependentTest) ([]catalog.IndependentTest, Report) {
	return Flat(older, newer, IndependentIdentity)
}

// DependentTests merges two engine-dependent test collections.
func DependentTests(older, newer []catalog.DependentTest) ([]catalog.DependentTest, Report) {
	return Flat(older, newer, DependentIdentity)
}
