package response_test

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/blogapp/internal/http/response"
)

func TestResponse_JSONShape(t *testing.T) {
	tests := []struct {
		name string
		resp response.Response
		want string
	}{
		{"ok", response.OK(), `{"success":true}`},
		{"message", response.OKWithMessage("Logged out successfully"), `{"success":true,"message":"Logged out successfully"}`},
		{"data", response.OKWithData(map[string]string{"k": "v"}), `{"success":true,"data":{"k":"v"}}`},
		{"error", response.Error("Invalid password"), `{"success":false,"message":"Invalid password"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestValidationError(t *testing.T) {
	type req struct {
		Name  string `validate:"required"`
		Email string `validate:"required,email"`
	}
	v := validator.New()

	err := v.Struct(req{})
	require.Error(t, err)
	resp := response.ValidationError(err.(validator.ValidationErrors))
	assert.False(t, resp.Success)
	assert.Equal(t, response.MsgFieldsRequired, resp.Message)

	err = v.Struct(req{Name: "alice", Email: "not-an-email"})
	require.Error(t, err)
	resp = response.ValidationError(err.(validator.ValidationErrors))
	assert.False(t, resp.Success)
	assert.Equal(t, "invalid field Email", resp.Message)
}
