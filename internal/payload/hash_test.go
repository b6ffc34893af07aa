package payload

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pngcard/internal/testutil"
)

func TestContentHash_IgnoresExportTime(t *testing.T) {
	card := Record{"name": "Aria"}
	p1, err := New(KindCharacterCard, testutil.Epoch, card, nil, nil)
	require.NoError(t, err)
	p2, err := New(KindCharacterCard, testutil.Epoch.Add(48*time.Hour), card, nil, nil)
	require.NoError(t, err)

	h1, err := ContentHash(p1)
	require.NoError(t, err)
	h2, err := ContentHash(p2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestContentHash_DistinguishesContent(t *testing.T) {
	base, err := New(KindCharacterCard, testutil.Epoch, Record{"name": "Aria"}, nil, nil)
	require.NoError(t, err)
	otherKind, err := New(KindPersona, testutil.Epoch, Record{"name": "Aria"}, nil, nil)
	require.NoError(t, err)
	withWorld, err := New(KindCharacterCard, testutil.Epoch, Record{"name": "Aria"}, Record{"name": "W"}, nil)
	require.NoError(t, err)
	withLore, err := New(KindCharacterCard, testutil.Epoch, Record{"name": "Aria"}, nil, []Record{{"k": "v"}})
	require.NoError(t, err)

	hashes := map[string]bool{}
	for _, p := range []*Payload{base, otherKind, withWorld, withLore} {
		h, err := ContentHash(p)
		require.NoError(t, err)
		hashes[h] = true
	}
	assert.Len(t, hashes, 4)
}

func TestContentHash_NFCEquivalent(t *testing.T) {
	p1, err := New(KindPersona, testutil.Epoch, Record{"name": "café"}, nil, nil)
	require.NoError(t, err)
	p2, err := New(KindPersona, testutil.Epoch, Record{"name": "café"}, nil, nil)
	require.NoError(t, err)

	h1, err := ContentHash(p1)
	require.NoError(t, err)
	h2, err := ContentHash(p2)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestHashWithDomain_Separation(t *testing.T) {
	assert.NotEqual(t,
		hashWithDomain("a", []byte("bc")),
		hashWithDomain("ab", []byte("c")),
	)
}

func TestContentHash_Nil(t *testing.T) {
	_, err := ContentHash(nil)
	assert.Error(t, err)
}
