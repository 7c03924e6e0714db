package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddMergesByProductID(t *testing.T) {
	c := New()

	require.NoError(t, c.Add("p1", 5, 2199, ""))
	assert.Equal(t, int64(10995), c.Total())

	require.NoError(t, c.Add("p1", 2, 2199, "note"))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
	assert.Equal(t, "note", lines[0].Notes)
	assert.Equal(t, int64(15393), c.Total())

	c.Remove("p1")
	assert.True(t, c.Empty())
	assert.Zero(t, c.Total())
}

func TestAddKeepsPriceSnapshotOnMerge(t *testing.T) {
	c := New()

	require.NoError(t, c.Add("p1", 1, 2199, ""))
	// Catalog price changed between adds; the line keeps the first snapshot.
	require.NoError(t, c.Add("p1", 1, 2599, ""))

	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(2199), lines[0].UnitPrice)
	assert.Equal(t, int64(4398), c.Total())
}

func TestAddRejectsNonPositiveQuantity(t *testing.T) {
	c := New()

	assert.ErrorIs(t, c.Add("p1", 0, 2199, ""), ErrInvalidQuantity)
	assert.ErrorIs(t, c.Add("p1", -3, 2199, ""), ErrInvalidQuantity)
	assert.True(t, c.Empty())
}

func TestRemoveUnknownProductIsNoop(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 2, 1850, ""))

	c.Remove("p9")

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(3700), c.Total())
}

func TestSetQuantity(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 5, 2199, ""))
	require.NoError(t, c.Add("p2", 1, 4599, ""))

	c.SetQuantity("p1", 3)
	assert.Equal(t, int64(3*2199+4599), c.Total())

	// Non-positive quantity is equivalent to remove.
	c.SetQuantity("p2", 0)
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, int64(3*2199), c.Total())

	// Unknown product never creates a line.
	c.SetQuantity("p9", 4)
	assert.Equal(t, 1, c.Len())
}

func TestTotalMatchesLinesAfterMutationSequence(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 5, 2199, ""))
	require.NoError(t, c.Add("p2", 2, 3250, ""))
	require.NoError(t, c.Add("p1", 1, 2199, ""))
	c.SetQuantity("p2", 4)
	c.Remove("p1")
	require.NoError(t, c.Add("p3", 1, 2499, "fresh"))

	var expected int64
	for _, l := range c.Lines() {
		expected += l.Subtotal()
	}
	assert.Equal(t, expected, c.Total())
}

func TestClear(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 5, 2199, ""))
	require.NoError(t, c.Add("p2", 2, 3250, ""))

	c.Clear()

	assert.True(t, c.Empty())
	assert.Zero(t, c.Total())
}

func TestLinesReturnsCopy(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 5, 2199, ""))

	lines := c.Lines()
	lines[0].Quantity = 100

	assert.Equal(t, int64(10995), c.Total())
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := New()
	require.NoError(t, c.Add("p1", 5, 2199, "keep cold"))
	require.NoError(t, c.Add("p2", 2, 3250, ""))

	data, err := EncodeSnapshot(c, time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	restored, err := DecodeSnapshot(data)
	require.NoError(t, err)

	assert.Equal(t, c.Lines(), restored.Lines())
	assert.Equal(t, c.Total(), restored.Total())
}

func TestDecodeSnapshotRejectsUnknownVersion(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`{"version":99,"lines":[]}`))
	assert.Error(t, err)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte(`not json`))
	assert.Error(t, err)
}
