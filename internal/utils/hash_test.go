// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "sorted keys", in: `{"b":1,"a":2}`, want: `{"a":2,"b":1}`},
		{name: "nested and whitespace", in: "{ \"z\": {\"y\": [1, 2], \"x\": null} ,\n\"a\":\"s\" }", want: `{"a":"s","z":{"x":null,"y":[1,2]}}`},
		{name: "large integer keeps precision", in: `{"n":9007199254740993}`, want: `{"n":9007199254740993}`},
		{name: "empty", in: ``, want: ``},
		{name: "broken", in: `{"a":`, wantErr: true},
		{name: "trailing document", in: `{} {}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalJSON([]byte(tt.in))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotCanonicalizable)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestPayloadHash(t *testing.T) {
	h1, err := PayloadHash([]byte(`{"name":"Pasta","servings":2}`))
	require.NoError(t, err)
	h2, err := PayloadHash([]byte(`{"servings":2, "name":"Pasta"}`))
	require.NoError(t, err)
	h3, err := PayloadHash([]byte(`{"servings":3,"name":"Pasta"}`))
	require.NoError(t, err)

	assert.Len(t, h1, 64)
	assert.Equal(t, h1, h2, "key order must not change the hash")
	assert.NotEqual(t, h1, h3)

	empty, err := PayloadHash(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	_, err = PayloadHash([]byte(`nope`))
	assert.ErrorIs(t, err, ErrNotCanonicalizable)
}

func TestPayloadsEqual(t *testing.T) {
	assert.True(t, PayloadsEqual([]byte(`{"a":1,"b":[1,2]}`), []byte(`{"b":[1,2],"a":1}`)))
	assert.False(t, PayloadsEqual([]byte(`{"a":1}`), []byte(`{"a":1.0}`)))
	assert.False(t, PayloadsEqual([]byte(`{"a":1}`), []byte(`{"a":2}`)))
	assert.True(t, PayloadsEqual(nil, []byte("  ")))
	assert.True(t, PayloadsEqual([]byte(`not json`), []byte(`not json`)))
	assert.False(t, PayloadsEqual([]byte(`not json`), []byte(`{}`)))
}
