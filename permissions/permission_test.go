package permissions_test

import (
	"net/http"
	"simaru/permissions"
	"simaru/shared/constant"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedPermissions(t *testing.T) {
	data := permissions.Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)

	tests := []struct {
		method  string
		path    string
		allowed []string
		denied  []string
	}{
		{http.MethodGet, "/v1/dashboard", []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser}, nil},
		{http.MethodGet, "/v1/rooms/", []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser}, nil},
		{http.MethodPost, "/v1/rooms/", []string{constant.RoleAdmin, constant.RoleManager}, []string{constant.RoleUser}},
		{http.MethodDelete, "/v1/rooms/{id}", []string{constant.RoleAdmin, constant.RoleManager}, []string{constant.RoleUser}},
		{http.MethodGet, "/v1/users/", []string{constant.RoleAdmin}, []string{constant.RoleManager, constant.RoleUser}},
		{http.MethodDelete, "/v1/users/{id}", []string{constant.RoleAdmin}, []string{constant.RoleManager, constant.RoleUser}},
		{http.MethodPut, "/v1/bookings/{id}", []string{constant.RoleAdmin, constant.RoleManager, constant.RoleUser}, nil},
		{http.MethodDelete, "/v1/bookings/{id}", []string{constant.RoleAdmin, constant.RoleManager}, []string{constant.RoleUser}},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			permission, ok := data.FindPermissions(tt.path, tt.method)
			require.True(t, ok)

			for _, role := range tt.allowed {
				assert.True(t, permission.Allows(role), role)
			}

			for _, role := range tt.denied {
				assert.False(t, permission.Allows(role), role)
			}
		})
	}

	t.Run("public routes skip", func(t *testing.T) {
		for _, path := range []string{"/health", "/v1/auth/login", "/v1/auth/refresh-token"} {
			method := http.MethodPost
			if path == "/health" {
				method = http.MethodGet
			}

			permission, ok := data.FindPermissions(path, method)
			require.True(t, ok, path)
			assert.True(t, permission.Skip, path)
		}
	})

	t.Run("unknown route", func(t *testing.T) {
		_, ok := data.FindPermissions("/v1/unknown", http.MethodGet)
		assert.False(t, ok)
	})
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
	}{
		{name: "valid", data: `{"endpoints":[{"path":"/v1/rooms/","method":"GET","permissions":["user"]}]}`},
		{name: "skipped without roles", data: `{"endpoints":[{"path":"/health","method":"GET","skip":true}]}`},
		{name: "unknown role", data: `{"endpoints":[{"path":"/v1/rooms/","method":"GET","permissions":["superadmin"]}]}`, wantErr: true},
		{name: "no roles", data: `{"endpoints":[{"path":"/v1/rooms/","method":"GET"}]}`, wantErr: true},
		{name: "malformed", data: `{"endpoints":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := permissions.Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
		})
	}
}
