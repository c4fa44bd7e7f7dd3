// ABOUTME: Tests for Handle/Query routing and behaviour overrides
// ABOUTME: Covers the self-bootstrap denial scenario and embedded default handlers

package admin

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/multiadmin/internal/host"
)

func addAdmins(addrs ...host.HumanAddr) HandleMsg {
	return HandleMsg{AddAdmins: &AddAdmins{Addresses: addrs}}
}

func TestHandle_AddAdmins_ByAdmin(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))

	resp, err := Handle(deps, envFrom("alice"), addAdmins("bob"), DefaultHandler{})
	require.NoError(t, err)
	assert.Equal(t, host.HandleResponse{}, resp)

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice", "bob"}, admins)
}

func TestHandle_AddAdmins_ByNonAdmin(t *testing.T) {
	deps, mem := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))
	before, _ := mem.Get(AdminsKey)

	_, err := Handle(deps, envFrom("mallory"), addAdmins("mallory"), DefaultHandler{})
	assert.ErrorIs(t, err, ErrUnauthorized)

	after, _ := mem.Get(AdminsKey)
	assert.Equal(t, before, after)
}

func TestHandle_AddAdmins_SelfBootstrapDenied(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, nil))

	_, err := Handle(deps, envFrom("alice"), addAdmins("alice"), DefaultHandler{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHandle_AddAdmins_NoSetYet(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := Handle(deps, envFrom("alice"), addAdmins("alice"), DefaultHandler{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHandle_AddAdmins_InvalidAddress(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))

	_, err := Handle(deps, envFrom("alice"), addAdmins("bob", "no"), DefaultHandler{})
	var addrErr *AddressError
	assert.ErrorAs(t, err, &addrErr)

	admins, err := LoadAdmins(deps)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"alice"}, admins)
}

func TestHandle_EmptyMessage(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := Handle(deps, envFrom("alice"), HandleMsg{}, DefaultHandler{})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

func TestQuery_Admins(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice", "bob", "alice"}))

	data, err := Query(readonly(deps), QueryMsg{Admins: &Admins{}}, DefaultQuerier{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addresses":["alice","bob","alice"]}`, string(data))
}

func TestQuery_Admins_EmptySetIsNotFound(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := Query(readonly(deps), QueryMsg{Admins: &Admins{}}, DefaultQuerier{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestQuery_EmptyMessage(t *testing.T) {
	deps, _ := newTestDeps(t)

	_, err := Query(readonly(deps), QueryMsg{}, DefaultQuerier{})
	assert.ErrorIs(t, err, ErrUnknownMessage)
}

// loggingHandler overrides AddAdmins while reusing the default behaviour.
type loggingHandler struct {
	DefaultHandler
	added []host.HumanAddr
}

func (h *loggingHandler) AddAdmins(deps *Deps, env host.Env, addresses []host.HumanAddr) (host.HandleResponse, error) {
	resp, err := h.DefaultHandler.AddAdmins(deps, env, addresses)
	if err != nil {
		return resp, err
	}
	h.added = append(h.added, addresses...)
	resp.Log = append(resp.Log, host.LogAttribute{Key: "action", Value: "add_admins"})
	return resp, nil
}

func TestHandle_OverriddenHandler(t *testing.T) {
	deps, _ := newTestDeps(t)
	require.NoError(t, SaveAdmins(deps, []host.HumanAddr{"alice"}))
	h := &loggingHandler{}

	resp, err := Handle(deps, envFrom("alice"), addAdmins("bob"), h)
	require.NoError(t, err)
	assert.Equal(t, []host.HumanAddr{"bob"}, h.added)
	assert.Equal(t, []host.LogAttribute{{Key: "action", Value: "add_admins"}}, resp.Log)

	_, err = Handle(deps, envFrom("mallory"), addAdmins("eve"), h)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, []host.HumanAddr{"bob"}, h.added)
}

// openQuerier replaces the query behaviour entirely: a missing set lists as empty.
type openQuerier struct{ DefaultQuerier }

func (q openQuerier) QueryAdmins(deps *ReadonlyDeps) ([]byte, error) {
	data, err := q.DefaultQuerier.QueryAdmins(deps)
	if err == ErrNotFound {
		return json.Marshal(QueryResponse{Addresses: []host.HumanAddr{}})
	}
	return data, err
}

func TestQuery_OverriddenQuerier(t *testing.T) {
	deps, _ := newTestDeps(t)

	data, err := Query(readonly(deps), QueryMsg{Admins: &Admins{}}, openQuerier{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"addresses":[]}`, string(data))
}
