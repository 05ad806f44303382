package httpjson

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Notes string `json:"notes"`
}

func TestDecode_EmptyBody(t *testing.T) {
	var n note
	err := Decode(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &n)
	assert.ErrorIs(t, err, ErrEmptyBody)

	require.NoError(t, DecodeOptional(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &n))
	assert.Empty(t, n.Notes)

	require.NoError(t, DecodeOptional(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":"with food"}`)), &n))
	assert.Equal(t, "with food", n.Notes)

	err = DecodeOptional(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"notes":`)), &n)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyBody)
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?limit=20&bad=x&big=999", nil)
	assert.Equal(t, 20, QueryInt(r, "limit", 50, 1, 200))
	assert.Equal(t, 50, QueryInt(r, "bad", 50, 1, 200))
	assert.Equal(t, 50, QueryInt(r, "big", 50, 1, 200))
	assert.Equal(t, 50, QueryInt(r, "missing", 50, 1, 200))
}
