package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMakeAndApply(t *testing.T) {
	from := "The quick brown fox\njumps over the lazy dog\n"
	to := "The quick red fox\njumps over the lazy cat\nand runs away\n"

	p := Make(from, to)
	require.NotEmpty(t, p)

	got, err := Apply(from, p)
	require.NoError(t, err)
	assert.Equal(t, to, got)
}

func TestMakeIdenticalContentIsEmpty(t *testing.T) {
	assert.Empty(t, Make("same", "same"))

	got, err := Apply("same", "")
	require.NoError(t, err)
	assert.Equal(t, "same", got)
}

func TestApplyRejectsGarbage(t *testing.T) {
	_, err := Apply("base", "@@ not a patch")
	assert.Error(t, err)
}

func TestReconstructContent(t *testing.T) {
	versions := []string{
		"",
		"# Title\n",
		"# Title\n\nFirst paragraph.\n",
		"# New title\n\nFirst paragraph.\nSecond line.\n",
	}

	var patches []string
	for i := 1; i < len(versions); i++ {
		patches = append(patches, Make(versions[i-1], versions[i]))
	}

	for i := range patches {
		got, err := ReconstructContent(versions[0], patches[:i+1]...)
		require.NoError(t, err)
		assert.Equal(t, versions[i+1], got)
	}
}

func TestMakeApplyRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		from := rapid.StringMatching(`[a-z \n#]{0,80}`).Draw(t, "from")
		to := rapid.StringMatching(`[a-z \n#]{0,80}`).Draw(t, "to")

		got, err := Apply(from, Make(from, to))
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if got != to {
			t.Fatalf("got %q, want %q", got, to)
		}
	})
}
