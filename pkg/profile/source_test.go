package profile_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/xpfang/pkg/metrics"
	"github.com/Sumatoshi-tech/xpfang/pkg/profile"
)

const (
	testUserBody = `{"user":[{"id":42,"login":"jdoe","attrs":{"firstName":"Jane","lastName":"Doe","country":"BH"}}]}`

	testDashboardBody = `{
  "xp": [
    {"amount": 1000, "createdAt": "2024-01-10T08:00:00+00:00", "path": "/bahrain/bh-module/go-reloaded"},
    {"amount": 500, "createdAt": "2024-01-11T09:30:00.123+00:00", "path": "/bahrain/bh-module/ascii-art", "type": "xp"}
  ],
  "up": [{"amount": 300, "createdAt": "2024-01-12T00:00:00Z", "path": "/bahrain/bh-module/ascii-art"}],
  "down": null,
  "progress": [
    {"grade": 1.2, "path": "/bahrain/bh-module/go-reloaded", "createdAt": "2024-01-10T08:00:00Z"},
    {"grade": null, "path": "/bahrain/bh-piscine/quest-01/hello", "createdAt": "2024-01-02T08:00:00Z"}
  ]
}`
)

var errGatewayDown = errors.New("gateway down")

// fakeExecutor answers the two queries with canned bodies.
type fakeExecutor struct {
	bodies    map[string]string
	err       error
	variables []map[string]any
}

func (f *fakeExecutor) Execute(_ context.Context, query string, variables map[string]any, out any) error {
	f.variables = append(f.variables, variables)

	if f.err != nil {
		return f.err
	}

	return json.Unmarshal([]byte(f.bodies[query]), out)
}

func newFakeExecutor(user, dashboard string) *fakeExecutor {
	return &fakeExecutor{bodies: map[string]string{
		profile.UserQuery:      user,
		profile.DashboardQuery: dashboard,
	}}
}

func fixedNow() time.Time {
	return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
}

func TestFetcher_Load(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor(testUserBody, testDashboardBody)
	f := &profile.Fetcher{Exec: exec, Now: fixedNow}

	snap, err := f.Load(t.Context())
	require.NoError(t, err)

	assert.Equal(t, int64(42), snap.User.ID)
	assert.Equal(t, "Jane Doe", snap.User.DisplayName())
	assert.Equal(t, fixedNow(), snap.FetchedAt)

	require.Len(t, exec.variables, 2)
	assert.Nil(t, exec.variables[0])
	assert.Equal(t, map[string]any{"userId": int64(42)}, exec.variables[1])

	require.Len(t, snap.XP, 2)
	assert.Equal(t, metrics.TypeXP, snap.XP[0].Type)
	assert.Equal(t, int64(1000), snap.XP[0].Amount)
	require.Len(t, snap.Up, 1)
	assert.Equal(t, metrics.TypeUp, snap.Up[0].Type)
	assert.NotNil(t, snap.Down)
	assert.Empty(t, snap.Down)
	require.Len(t, snap.Progress, 2)
	assert.Nil(t, snap.Progress[1].Grade)
}

func TestFetcher_User(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor(testUserBody, testDashboardBody)

	user, err := profile.NewFetcher(exec, nil).User(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.Login)
	assert.Equal(t, "Doe", user.Attrs.LastName)
	assert.Len(t, exec.variables, 1, "only the user query runs")
}

func TestFetcher_NoUser(t *testing.T) {
	t.Parallel()

	f := profile.NewFetcher(newFakeExecutor(`{"user":[]}`, testDashboardBody), nil)

	_, err := f.Load(t.Context())
	require.ErrorIs(t, err, profile.ErrNoUser)
}

func TestFetcher_GatewayError(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor(testUserBody, testDashboardBody)
	exec.err = errGatewayDown

	_, err := profile.NewFetcher(exec, nil).Load(t.Context())
	require.ErrorIs(t, err, errGatewayDown)
	assert.Contains(t, err.Error(), "query user")
}

func TestFetcher_MalformedRows(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor(testUserBody, `{"xp":[{"amount":"lots"}],"up":[],"down":[],"progress":[]}`)

	_, err := profile.NewFetcher(exec, nil).Load(t.Context())
	require.ErrorIs(t, err, metrics.ErrMalformedInput)
	assert.Contains(t, err.Error(), "decode xp")
}

func TestFetcher_NullAttrs(t *testing.T) {
	t.Parallel()

	exec := newFakeExecutor(`{"user":[{"id":1,"login":"solo","attrs":null}]}`, `{}`)

	snap, err := profile.NewFetcher(exec, nil).Load(t.Context())
	require.NoError(t, err)
	assert.Equal(t, "solo", snap.User.DisplayName())
	assert.Empty(t, snap.XP)
	assert.Empty(t, snap.Progress)
}

func TestStaticSource(t *testing.T) {
	t.Parallel()

	snap := &profile.Snapshot{User: metrics.UserIdentity{Login: "x"}}

	got, err := profile.StaticSource{Snapshot: snap}.Load(t.Context())
	require.NoError(t, err)
	assert.Same(t, snap, got)

	_, err = profile.StaticSource{}.Load(t.Context())
	require.ErrorIs(t, err, profile.ErrNoUser)
}
