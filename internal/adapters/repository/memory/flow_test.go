package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemaflow/schemaflow/internal/core/flow"
)

func sampleFlow(id string) *flow.Flow {
	f := flow.New(id, "sample")
	node := &flow.Node{ID: "src", Name: "Source", Kind: flow.KindFile}
	if err := f.AddNode(node); err != nil {
		panic(err)
	}
	return f
}

func TestFlowRepository_SaveAndGet(t *testing.T) {
	repo := NewFlowRepository()
	ctx := context.Background()

	f := sampleFlow("f1")
	require.NoError(t, repo.Save(ctx, f))

	got, err := repo.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "sample", got.Name)
	assert.Contains(t, got.Nodes, "src")

	// Stored copy is isolated from later caller edits
	f.Name = "renamed"
	got, err = repo.Get(ctx, "f1")
	require.NoError(t, err)
	assert.Equal(t, "sample", got.Name)
}

func TestFlowRepository_SaveRejectsInvalid(t *testing.T) {
	repo := NewFlowRepository()
	f := flow.New("f1", "") // missing name
	assert.Error(t, repo.Save(context.Background(), f))
}

func TestFlowRepository_GetMissing(t *testing.T) {
	repo := NewFlowRepository()
	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, flow.ErrFlowNotFound)
}

func TestFlowRepository_List(t *testing.T) {
	repo := NewFlowRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleFlow("f1")))
	require.NoError(t, repo.Save(ctx, sampleFlow("f2")))

	flows, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, flows, 2)
}

func TestFlowRepository_Delete(t *testing.T) {
	repo := NewFlowRepository()
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, sampleFlow("f1")))

	require.NoError(t, repo.Delete(ctx, "f1"))
	_, err := repo.Get(ctx, "f1")
	assert.ErrorIs(t, err, flow.ErrFlowNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "f1"), flow.ErrFlowNotFound)
}
