package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_FullName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{name: "both parts", user: User{FirstName: "A", LastName: "L"}, expected: "A L"},
		{name: "first only", user: User{FirstName: "A"}, expected: "A"},
		{name: "last only", user: User{LastName: "L"}, expected: "L"},
		{name: "neither", user: User{}, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.user.FullName())
		})
	}
}

func TestUser_Equal(t *testing.T) {
	a := &User{ID: 1, Username: "alice"}
	b := &User{ID: 1, Username: "alice"}
	c := &User{ID: 1, Username: "alice", ProfilePicture: "/p.png"}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	var nilUser *User
	assert.True(t, nilUser.Equal(nil))
}

func TestUnmarshalUser_RoundTripAndErrors(t *testing.T) {
	u := &User{ID: 1, Username: "alice", Email: "a@x.com", Role: "user"}

	data, err := u.Marshal()
	require.NoError(t, err)

	got, err := UnmarshalUser(data)
	require.NoError(t, err)
	assert.True(t, got.Equal(u))

	_, err = UnmarshalUser([]byte("{broken"))
	require.Error(t, err)
}
