package deck

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandardDeckHas52DistinctCards(t *testing.T) {
	t.Parallel()
	d := NewStandard()
	d.Shuffle()

	seen := make(map[Card]bool)
	for i := 0; i < 52; i++ {
		card, ok := d.Draw()
		require.True(t, ok, "draw %d should succeed", i)
		assert.False(t, seen[card], "card %s dealt twice", card)
		seen[card] = true
	}
	assert.Len(t, seen, 52)

	_, ok := d.Draw()
	assert.False(t, ok, "53rd draw should fail")
}

func TestShuffleResetsCursor(t *testing.T) {
	t.Parallel()
	d := NewStandardWithRNG(rand.New(rand.NewSource(1)))
	d.Shuffle()
	for i := 0; i < 52; i++ {
		_, ok := d.Draw()
		require.True(t, ok)
	}
	_, ok := d.Draw()
	require.False(t, ok)

	d.Shuffle()
	_, ok = d.Draw()
	assert.True(t, ok, "shuffle should make the deck drawable again")
}

func TestRiggedDeckDealsInOrder(t *testing.T) {
	t.Parallel()
	d := NewRigged(
		MustParseCard("A♠"),
		MustParseCard("K♦"),
		MustParseCard("2♣"),
	)
	d.Shuffle() // must not disturb the order

	for _, want := range []string{"A♠", "K♦", "2♣"} {
		card, ok := d.Draw()
		require.True(t, ok)
		assert.Equal(t, want, card.String())
	}
	_, ok := d.Draw()
	assert.False(t, ok)
}

func TestParseCard(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"A♠", "A♠", true},
		{"Td", "T♦", true},
		{"2c", "2♣", true},
		{"kh", "K♥", true},
		{"A", "", false},
		{"Xd", "", false},
		{"Ax", "", false},
	}
	for _, tc := range cases {
		card, err := ParseCard(tc.in)
		if !tc.ok {
			assert.Error(t, err, "parsing %q should fail", tc.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tc.want, card.String())
	}
}
