package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeNameRenamesReservedIdentifiers(t *testing.T) {
	require.Equal(t, "ps2_main", sanitizeName("main", 0x1000))
	require.Equal(t, "ps2_is_pointer", sanitizeName("__is_pointer", 0x1004))
}

func TestSanitizeNameReplacesIllegalCharacters(t *testing.T) {
	require.Equal(t, "FUN_001_foo", sanitizeName("FUN_001$foo", 0))
}

func TestSanitizeNameFallsBackForEmptyOrAnonymous(t *testing.T) {
	require.Equal(t, "fn_00001234", sanitizeName("", 0x1234))
}

func TestSanitizeNamePrefixesLeadingDigit(t *testing.T) {
	require.Equal(t, "_123abc", sanitizeName("123abc", 0))
}

func TestUniqueNamerDisambiguatesRepeats(t *testing.T) {
	namer := newUniqueNamer()
	first := namer.name("loc", 0x1000)
	second := namer.name("loc", 0x2000)

	require.Equal(t, "loc", first)
	require.Equal(t, "loc_00002000", second)
	require.NotEqual(t, first, second)
}
