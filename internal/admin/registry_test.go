// ABOUTME: Tests for SaveAdmins and LoadAdmins
// ABOUTME: Covers NotFound asymmetry, duplicates, atomic failure and round trips

package admin

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/host"
)

func TestLoadAdmins_BeforeSave_NotFound(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := LoadAdmins(deps)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAdmins_EmptyListCreatesSet(t *testing.T) {
	deps, _ := newTestDeps(t)

	require.NoError(t, SaveAdmins(deps, nil))

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Empty(t, admins)
	assert.NotNil(t, admins)
}

func TestSaveAdmins_RoundTripPreservesOrder(t *testing.T) {
	deps, _ := newTestDeps(t)
	input := []host.HumanAddr{"carol", "alice", "bob"}

	require.NoError(t, SaveAdmins(deps, input))

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Equal(t, input, admins)
}

func TestSaveAdmins_Appends(t *testing.T) {
	deps, _ := newTestDeps(t)

	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"bob", "carol"}))

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice", "bob", "carol"}, admins)
}

func TestSaveAdmins_KeepsDuplicates(t *testing.T) {
	deps, _ := newTestDeps(t)

	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice", "alice"}, admins)

	env := envFrom("alice")
	assert.NoError(t, AssertAdmin(deps, &env), "duplicates must not affect membership")
}

func TestSaveAdmins_ConversionFailureIsAtomic(t *testing.T) {
	deps, mem := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))
	before, err := mem.Get(AdminsKey)
	require.NoError(t, err)

	err = SaveAdmins(deps, []host.HumanAddr{"bob", "x", "carol"})
	require.Error(t, err)

	var addrErr *AddressError
	require.True(t, errors.As(err, &addrErr))
	assert.Equal(t, OpCanonicalize, addrErr.Op)
	assert.Equal(t, "x", addrErr.Address)
	assert.ErrorIs(t, err, host.ErrInvalidAddress)

	after, err := mem.Get(AdminsKey)
	require.NoError(t, err)
	assert.Equal(t, before, after, "stored set must be unchanged")
}

func TestSaveAdmins_ConversionFailureOnFirstWriteLeavesKeyAbsent(t *testing.T) {
	base, _ := newTestDeps(t)
	deps := &host.Extern[host.Storage, flakyApi, host.NoopQuerier]{
		Storage: base.Storage,
		Api:     flakyApi{MockApi: host.NewMockApi(), reject: "mallory"},
	}

	err := SaveAdmins(deps, []host.HumanAddr{"alice", "mallory"})
	assert.ErrorIs(t, err, host.ErrInvalidAddress)

	_, err = LoadAdmins(deps)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAdmins_StorageFailure(t *testing.T) {
	deps := &host.Extern[brokenStorage, host.MockApi, host.NoopQuerier]{Api: host.NewMockApi()}

	err := SaveAdmins(deps, []host.HumanAddr{"alice"})
	assert.ErrorIs(t, err, errStorageDown)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadAdmins_StorageFailureIsNotNotFound(t *testing.T) {
	deps := &host.Extern[brokenStorage, host.MockApi, host.NoopQuerier]{Api: host.NewMockApi()}

	_, err := LoadAdmins(deps)
	assert.ErrorIs(t, err, errStorageDown)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestLoadAdmins_CorruptValue(t *testing.T) {
	deps, mem := newTestDeps(t)
	require.NoError(t, mem.Set(AdminsKey, []byte("not json")))

	_, err := LoadAdmins(deps)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding admin set")

	err = SaveAdmins(deps, []host.HumanAddr{"alice"})
	assert.Error(t, err, "save must not overwrite an undecodable set")
}

func TestLoadAdmins_HumanizeFailure(t *testing.T) {
	deps, mem := newTestDeps(t)
	bad, err := json.Marshal([][]byte{[]byte("short")})
	require.NoError(t, err)
	require.NoError(t, mem.Set(AdminsKey, bad))

	_, err = LoadAdmins(deps)
	var addrErr *AddressError
	require.True(t, errors.As(err, &addrErr))
	assert.Equal(t, OpHumanize, addrErr.Op)
	assert.Equal(t, "73686f7274", addrErr.Address)
}

func TestSaveAdmins_StoredEncoding(t *testing.T) {
	deps, mem := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"abc"}))

	raw, err := mem.Get(AdminsKey)
	require.NoError(t, err)

	// "abc" padded to 20 bytes, base64 encoded inside a JSON array.
	assert.JSONEq(t, `["YWJjAAAAAAAAAAAAAAAAAAAAAAA="]`, string(raw))
}

func TestAdminsKey_IsStable(t *testing.T) {
	assert.Equal(t, []byte("i801onL3kf"), AdminsKey)
}
