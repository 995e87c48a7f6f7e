package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLoadOrder() LoadOrder {
	return LoadOrder{Listings: []ModListing{
		{Key: "Skyrim.esm", Enabled: true, Mod: NewMod("Skyrim.esm")},
		{Key: "Disabled.esp", Enabled: false, Mod: NewMod("Disabled.esp")},
		{Key: "Missing.esp", Enabled: true},
		{Key: "QuestsAreInSkyrim.esp", Enabled: true, Mod: NewMod("QuestsAreInSkyrim.esp")},
	}}
}

func TestLoadOrderQueries(t *testing.T) {
	lo := sampleLoadOrder()

	assert.Equal(t, 0, lo.Priority("Skyrim.esm"))
	assert.Equal(t, 3, lo.Priority("QuestsAreInSkyrim.esp"))
	assert.Equal(t, -1, lo.Priority("Nope.esp"))

	assert.True(t, lo.ListsMod("Disabled.esp"))
	assert.True(t, lo.ListsMod("Missing.esp"))
	assert.False(t, lo.ListsMod("Nope.esp"))

	assert.True(t, lo.ModExists("Disabled.esp", false))
	assert.False(t, lo.ModExists("Disabled.esp", true))
	assert.False(t, lo.ModExists("Missing.esp", false))

	_, ok := lo.TryGetIfEnabledAndExists("Disabled.esp")
	assert.False(t, ok)
	m, ok := lo.TryGetIfEnabledAndExists("Skyrim.esm")
	require.True(t, ok)
	assert.Equal(t, ModKey("Skyrim.esm"), m.ModKey)

	enabled := lo.EnabledMods()
	require.Len(t, enabled, 2)
	assert.Equal(t, ModKey("Skyrim.esm"), enabled[0].ModKey)
	assert.Equal(t, ModKey("QuestsAreInSkyrim.esp"), enabled[1].ModKey)
}

func TestAssertListsAnyMod(t *testing.T) {
	lo := sampleLoadOrder()

	assert.NoError(t, lo.AssertListsAnyMod([]ModKey{"QuestsAreInSkyrimUSSEP.esp", "QuestsAreInSkyrim.esp"}))

	alternatives := []ModKey{"X.esp", "Y.esp"}
	err := lo.AssertListsAnyMod(alternatives)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingMod)

	var missing *MissingModError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, alternatives, missing.Alternatives)
	assert.Contains(t, err.Error(), "X.esp")
	assert.Contains(t, err.Error(), "Y.esp")

	err = lo.AssertListsAnyMod([]ModKey{"Disabled.esp", "Missing.esp"})
	assert.ErrorIs(t, err, ErrMissingMod, "listed but unusable mods do not satisfy the check")
}

func TestResolvePluginVersion(t *testing.T) {
	lo := sampleLoadOrder()
	lo.Listings = append(lo.Listings, ModListing{Key: "QuestsAreInSkyrimUSSEP.esp", Enabled: true, Mod: NewMod("QuestsAreInSkyrimUSSEP.esp")})

	m, err := lo.ResolvePluginVersion([]ModKey{"QuestsAreInSkyrimUSSEP.esp", "QuestsAreInSkyrim.esp"})
	require.NoError(t, err)
	assert.Equal(t, ModKey("QuestsAreInSkyrimUSSEP.esp"), m.ModKey, "first alternative wins regardless of load order position")

	m, err = lo.ResolvePluginVersion([]ModKey{"Disabled.esp", "QuestsAreInSkyrim.esp"})
	require.NoError(t, err)
	assert.Equal(t, ModKey("QuestsAreInSkyrim.esp"), m.ModKey)

	_, err = lo.ResolvePluginVersion([]ModKey{"X.esp", "Y.esp"})
	var missing *MissingModError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []ModKey{"X.esp", "Y.esp"}, missing.Alternatives)
}

func TestLoadOrderMatchesModKeysWithoutCase(t *testing.T) {
	lo := sampleLoadOrder()

	assert.True(t, lo.ListsMod("questsareinskyrim.esp"))
	assert.True(t, lo.ModExists("QUESTSAREINSKYRIM.ESP", true))
	assert.NoError(t, lo.AssertListsAnyMod([]ModKey{"questsareinskyrim.esp"}))

	m, err := lo.ResolvePluginVersion([]ModKey{"questsareinskyrim.esp"})
	require.NoError(t, err)
	assert.Equal(t, ModKey("QuestsAreInSkyrim.esp"), m.ModKey, "the listed spelling is kept")
}

func TestModKeyEqual(t *testing.T) {
	assert.True(t, ModKey("Skyrim.esm").Equal("skyrim.ESM"))
	assert.False(t, ModKey("Skyrim.esm").Equal("Update.esm"))
}

func TestMissingModErrorCustomMessage(t *testing.T) {
	err := &MissingModError{Alternatives: []ModKey{"A.esp"}, Message: "need A"}
	assert.Equal(t, "need A", err.Error())
	assert.ErrorIs(t, err, ErrMissingMod)
}
