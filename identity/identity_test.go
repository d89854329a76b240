package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitterSignInSignOut(t *testing.T) {
	e := NewEmitter()

	_, ok := e.Current()
	assert.False(t, ok)

	user := User{ID: uuid.New(), Email: "shopper@nightloom.shop"}
	e.SignIn(user)

	current, ok := e.Current()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)

	e.SignOut()
	_, ok = e.Current()
	assert.False(t, ok)
}

func TestEmitterSubscribersSeeChanges(t *testing.T) {
	e := NewEmitter()

	var seen []*User
	cancel := e.Subscribe(func(u *User) {
		seen = append(seen, u)
	})

	user := User{ID: uuid.New()}
	e.SignIn(user)
	e.SignOut()

	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])

	cancel()
	e.SignIn(user)
	assert.Len(t, seen, 2)
}

func TestStaticProvider(t *testing.T) {
	user := &User{ID: uuid.New(), Email: "shopper@nightloom.shop"}
	p := Static(user)

	current, ok := p.Current()
	require.True(t, ok)
	assert.Equal(t, user.ID, current.ID)

	anonymous := Static(nil)
	_, ok = anonymous.Current()
	assert.False(t, ok)
}
