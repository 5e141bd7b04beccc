package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/auth"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore/memory"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
)

func newUserService() (*UserService, *memory.Store[domain.User]) {
	store := memory.New[domain.User](domain.CollectionUsers)
	return NewUserService(store, newMockPublisher(), testLogger()), store
}

func TestUserService_CreateAndGetHidesSecrets(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateUserInput{
		RegisterInput: RegisterInput{UserName: "alice", Email: "alice@example.com", Password: "secret1", FirstName: "Alice"},
		IsAdmin:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", created.Fullname)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.UserName)
	assert.True(t, got.IsAdmin)
	assert.Empty(t, got.Password)

	stored, err := store.FindOne(ctx, docstore.ID(created.ID), docstore.Projection{})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "secret1"))

	_, err = svc.Create(ctx, CreateUserInput{RegisterInput: RegisterInput{UserName: "alice", Password: "secret1"}})
	requireAppError(t, err, http.StatusConflict)
}

func TestUserService_ListAndLookups(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	for _, in := range []CreateUserInput{
		{RegisterInput: RegisterInput{UserName: "admin", Password: "secret1", BusinessID: "b1"}, IsAdmin: true},
		{RegisterInput: RegisterInput{UserName: "bob", Password: "secret1", BusinessID: "b1", LastName: "Builder"}},
		{RegisterInput: RegisterInput{UserName: "carl", Password: "secret1", BusinessID: "b2"}, IsActive: boolPtr(false)},
	} {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, UserFilter{BusinessID: "b1"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	for _, u := range res.List {
		assert.Empty(t, u.Password)
	}

	res, err = svc.List(ctx, UserFilter{ListParams: ListParams{Search: "builder"}})
	require.NoError(t, err)
	require.Len(t, res.List, 1)
	assert.Equal(t, "bob", res.List[0].UserName)

	res, err = svc.List(ctx, UserFilter{ListParams: ListParams{Sort: "user_name"}})
	require.NoError(t, err)
	require.Len(t, res.List, 3)
	assert.Equal(t, "admin", res.List[0].UserName)

	_, err = svc.List(ctx, UserFilter{ListParams: ListParams{Sort: "password;--"}})
	requireAppError(t, err, http.StatusBadRequest)

	admins, err := svc.Admins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].UserName)

	active, err := svc.Active(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestUserService_Update(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateUserInput{RegisterInput: RegisterInput{UserName: "alice", Password: "secret1"}, DefaultPW: true})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateUserInput{RegisterInput: RegisterInput{UserName: "bob", Password: "secret1"}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, a.ID, UpdateUserInput{UserName: strPtr("bob")})
	requireAppError(t, err, http.StatusConflict)

	updated, err := svc.Update(ctx, a.ID, UpdateUserInput{Phone: strPtr("0900"), Password: strPtr("changed1")})
	require.NoError(t, err)
	assert.Equal(t, "0900", updated.Phone)
	assert.False(t, updated.DefaultPW)

	stored, err := store.FindOne(ctx, docstore.ID(a.ID), docstore.Projection{})
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "changed1"))

	_, err = svc.Update(ctx, "missing", UpdateUserInput{Phone: strPtr("1")})
	requireAppError(t, err, http.StatusNotFound)
}

func TestUserService_DeleteIsSoftAndIdempotent(t *testing.T) {
	svc, store := newUserService()
	ctx := context.Background()
	a, err := svc.Create(ctx, CreateUserInput{RegisterInput: RegisterInput{UserName: "alice", Password: "secret1"}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.NoError(t, svc.Delete(ctx, a.ID))

	stored, err := store.FindOne(ctx, docstore.ID(a.ID), docstore.Projection{})
	require.NoError(t, err)
	assert.True(t, stored.IsDelete)
	assert.False(t, stored.IsActive)

	_, err = svc.Get(ctx, a.ID)
	requireAppError(t, err, http.StatusNotFound)

	err = svc.Delete(ctx, "missing")
	requireAppError(t, err, http.StatusNotFound)
}
