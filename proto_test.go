package crowip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSequences(t *testing.T) {
	require.Equal(t, keySequence{"1234", "E"}, disarmSequence("1234"))
	require.Nil(t, disarmSequence(""))

	require.Equal(t, keySequence{"1234", "ARM", "E"}, codeSequence("1234", tokenArm))
	require.Equal(t, keySequence{"STAY", "E"}, codeSequence("", tokenStay))

	require.Equal(t, keySequence{"RL3"}, outputSequence(3))
	require.Nil(t, outputSequence(0))

	require.Equal(t, keySequence{"9"}, keypressSequence("9"))
	require.Nil(t, keypressSequence(""))
	require.Equal(t, keySequence{"PANIC"}, panicSequence())
}

func TestDecodeLine(t *testing.T) {
	require.Equal(t, "ZO5", decodeLine([]byte("ZO5\r\n")))
	require.Equal(t, "AREA B", decodeLine([]byte("\x00AREA B\x07\r\n")))
	require.Equal(t, "ZONE 3 CAFÉ", decodeLine([]byte("ZONE 3 CAF\xc9\n")))
}
