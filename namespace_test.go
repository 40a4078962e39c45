package xstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	got, err := Resolve("equipment_upload_357", "myapp")
	require.NoError(t, err)
	assert.Equal(t, "myapp_equipment_upload_357", got)

	again, err := Resolve("equipment_upload_357", "myapp")
	require.NoError(t, err)
	assert.Equal(t, got, again, "resolution is deterministic")

	other, err := Resolve("equipment_upload_358", "myapp")
	require.NoError(t, err)
	assert.NotEqual(t, got, other)
}

func TestResolve_Empty(t *testing.T) {
	_, err := Resolve("", "myapp")
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = Resolve("job", "")
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNamespace(t *testing.T) {
	_, err := NewNamespace("")
	require.ErrorIs(t, err, ErrConfiguration)

	ns, err := NewNamespace("staging")
	require.NoError(t, err)
	assert.Equal(t, "staging", ns.Prefix())

	got, err := ns.Resolve("report_74")
	require.NoError(t, err)
	assert.Equal(t, "staging_report_74", got)
}
