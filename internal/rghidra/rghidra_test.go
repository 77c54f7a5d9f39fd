package rghidra

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

func TestParseSkipsBlankAndCommentLines(t *testing.T) {
	input := "# comment\n\n0x00100000 main 0x40\n00200000 FUN_00200000\n"
	entries, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, Entry{Addr: 0x00100000, Name: "main", Size: 0x40}, entries[0])
	require.Equal(t, Entry{Addr: 0x00200000, Name: "FUN_00200000"}, entries[1])
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := Parse(strings.NewReader("not-an-address\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestOverlayRenamesExistingAndAddsNew(t *testing.T) {
	symbols := []rtypes.Symbol{{Name: "FUN_00100000", Addr: 0x00100000, IsFunction: true}}
	entries := []Entry{
		{Addr: 0x00100000, Name: "main"},
		{Addr: 0x00100040, Name: "helper"},
	}

	out := Overlay(symbols, entries)
	require.Len(t, out, 2)
	require.Equal(t, "main", out[0].Name)
	require.Equal(t, "helper", out[1].Name)
	require.True(t, out[1].IsFunction)
}
