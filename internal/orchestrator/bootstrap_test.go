package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ps2xrecomp/ps2recomp/internal/relf"
	"github.com/ps2xrecomp/ps2recomp/internal/rtypes"
)

func TestDeriveBootstrapFindsEntrySymbolAndBSSRange(t *testing.T) {
	img := &relf.Image{
		Entry: 0x00100000,
		GP:    0x00200000,
		Sections: []rtypes.Section{
			{Name: ".bss", Addr: 0x00300000, Size: 0x1000, IsBSS: true},
			{Name: ".sbss", Addr: 0x00301000, Size: 0x100, IsBSS: true},
		},
		Symbols: []rtypes.Symbol{
			{Name: "_start", Addr: 0x00100000, IsFunction: true},
		},
	}

	info := deriveBootstrap(img)
	require.True(t, info.Valid)
	require.Equal(t, uint32(0x00100000), info.Entry)
	require.Equal(t, uint32(0x00200000), info.GP)
	require.Equal(t, "_start", info.EntryName)
	require.Equal(t, uint32(0x00300000), info.BSSStart)
	require.Equal(t, uint32(0x00301100), info.BSSEnd)
}

func TestDeriveBootstrapSynthesizesEntryName(t *testing.T) {
	img := &relf.Image{Entry: 0x00100000}
	info := deriveBootstrap(img)
	require.Equal(t, "entry_00100000", info.EntryName)
}
