package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_Clone(t *testing.T) {
	s := State{"a": 1}
	c := s.Clone()
	c["b"] = 2

	assert.NotContains(t, s, "b")
	assert.Equal(t, State{}, State(nil).Clone())
}

func TestState_Merge(t *testing.T) {
	s := State{"name": "given", "empty": ""}
	s.Merge(map[string]any{"name": "default", "empty": "filled", "extra": 3})

	assert.Equal(t, State{"name": "given", "empty": "", "extra": 3}, s)
}

func TestState_String(t *testing.T) {
	s := State{"name": "svc", "port": 8080, "nil": nil}
	assert.Equal(t, "svc", s.String("name"))
	assert.Equal(t, "8080", s.String("port"))
	assert.Equal(t, "", s.String("nil"))
	assert.Equal(t, "", s.String("absent"))
}

func TestState_Decode(t *testing.T) {
	var out struct {
		Name     string `json:"name"`
		Port     int    `json:"port"`
		Features []string
	}
	s := State{"name": "svc", "port": "8080", "Features": []any{"grpc"}}

	require.NoError(t, s.Decode(&out))
	assert.Equal(t, "svc", out.Name)
	assert.Equal(t, 8080, out.Port)
	assert.Equal(t, []string{"grpc"}, out.Features)
}
