package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStringAcceptsUnaryReaction(t *testing.T) {
	prog, err := ParseString("test.spim", `new a@1.0 run (!a;end | ?a;end)`)
	require.NoError(t, err)
	require.Len(t, prog.Decls, 2)
	require.NotNil(t, prog.Decls[0].NewChannel)
	assert.Equal(t, "a", prog.Decls[0].NewChannel.Name)
	require.NotNil(t, prog.Decls[1].Run)
}

func TestParseStringAcceptsChoiceAndReplication(t *testing.T) {
	_, err := ParseString("test.spim", `
new a@1.0
new b@1.0
run (do ?a;end or ?b;end | replicate !a;end)
`)
	assert.NoError(t, err)
}

func TestParseStringRejectsMissingSemicolon(t *testing.T) {
	_, err := ParseString("test.spim", `new a@1.0 run (!a end)`)
	assert.Error(t, err)
}
