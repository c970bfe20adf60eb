package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"model-mapper/internal/export"
)

type memRepo struct {
	runs map[string][]export.Record
}

func (m *memRepo) Close()                             {}
func (m *memRepo) EnsureSchema(context.Context) error { return nil }

func (m *memRepo) SaveRun(_ context.Context, runID string, records []export.Record) error {
	m.runs[runID] = records
	return nil
}

func (m *memRepo) LoadRun(_ context.Context, runID string) ([]export.Record, error) {
	r, ok := m.runs[runID]
	if !ok {
		return nil, ErrRunNotFound
	}

	return r, nil
}

func TestRegisterAndOpen(t *testing.T) {
	Register("memory-test", func(context.Context, Config) (Repository, error) {
		return &memRepo{runs: map[string][]export.Record{}}, nil
	})

	assert.Contains(t, Drivers(), "memory-test")

	repo, err := Open(context.Background(), Config{Driver: "memory-test"})
	require.NoError(t, err)
	defer repo.Close()

	_, err = repo.LoadRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestRegister_Panics(t *testing.T) {
	assert.Panics(t, func() { Register("", func(context.Context, Config) (Repository, error) { return nil, nil }) })
	assert.Panics(t, func() { Register("nil-factory", nil) })

	Register("dup-test", func(context.Context, Config) (Repository, error) { return nil, nil })
	assert.Panics(t, func() { Register("dup-test", func(context.Context, Config) (Repository, error) { return nil, nil }) })
}

func TestOpen_Errors(t *testing.T) {
	_, err := Open(context.Background(), Config{})
	assert.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: "no-such-driver"})
	assert.ErrorContains(t, err, "unsupported driver")
}

func TestAttributesRoundTrip(t *testing.T) {
	s, err := EncodeAttributes(map[string]any{
		"has_access_right":   map[string]any{"access_type": "非公開"},
		"belongs_to_project": map[string]any{"$ref": "e3", "_context": "Project"},
	})
	require.NoError(t, err)
	assert.Contains(t, s, "非公開")

	attrs, err := DecodeAttributes(s)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"access_type": "非公開"}, attrs["has_access_right"])

	s, err = EncodeAttributes(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", s)

	attrs, err = DecodeAttributes("null")
	require.NoError(t, err)
	assert.Empty(t, attrs)

	_, err = DecodeAttributes("{")
	assert.Error(t, err)
}
