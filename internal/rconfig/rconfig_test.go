package rconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadParsesSelectorsAndPatches(t *testing.T) {
	path := writeConfig(t, `
input_path = "game.elf"
output_path = "out"
single_file_output = true

skip_functions = ["memset", "helper@0x00101000", "0x00102000"]
stub_implementations = ["sceKernelCreateThread"]

[patches]
"0x00100010" = "0x00000000"

[mmio_by_instruction_address]
"0x00100100" = "0x10002000"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "game.elf", cfg.InputPath)
	require.True(t, cfg.SingleFileOutput)
	require.Len(t, cfg.SkipFunctions, 3)
	require.Equal(t, "memset", cfg.SkipFunctions[0].Name)
	require.False(t, cfg.SkipFunctions[0].HasAddr)

	require.Equal(t, "helper", cfg.SkipFunctions[1].Name)
	require.True(t, cfg.SkipFunctions[1].HasAddr)
	require.Equal(t, uint32(0x00101000), cfg.SkipFunctions[1].Addr)

	require.True(t, cfg.SkipFunctions[2].HasAddr)
	require.Equal(t, uint32(0x00102000), cfg.SkipFunctions[2].Addr)
	require.Equal(t, "", cfg.SkipFunctions[2].Name)

	require.Equal(t, uint32(0), cfg.Patches[0x00100010])
	require.Equal(t, uint32(0x10002000), cfg.MMIOByInstructionAddress[0x00100100])
}

func TestLoadRequiresInputPath(t *testing.T) {
	path := writeConfig(t, `output_path = "out"`)
	_, err := Load(path)
	require.Error(t, err)
}

func TestParseSelectorRejectsBareAt(t *testing.T) {
	_, err := parseSelector("@0x1000")
	require.Error(t, err)
}
