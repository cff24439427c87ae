package cmd

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// sampleFile builds a small survey:
//
//	2000-01-01 mig.e1 (entrance) --10m--> mig.2 --10m duplicate--> mig.3
func sampleFile() []byte {
	b := []byte("Survex 3D Image File\nv8\nMigovec\n@946684800\n\x00")
	point := func(x, y, z int32) {
		for _, v := range []int32{x, y, z} {
			b = binary.LittleEndian.AppendUint32(b, uint32(v))
		}
	}
	b = append(b, 0x11)
	b = binary.LittleEndian.AppendUint16(b, 36524)
	b = append(b, 0x0F)
	point(0, 0, 0)
	b = append(b, 0x84, 0x06)
	b = append(b, "mig.e1"...)
	point(0, 0, 0)
	b = append(b, 0x40, 0x21, '2')
	point(1000, 0, 0)
	b = append(b, 0x42, 0x11, '3')
	point(1000, 1000, 0)
	b = append(b, 0x80, 0x11, '2')
	point(1000, 0, 0)
	b = append(b, 0x80, 0x11, '3')
	point(1000, 1000, 0)
	b = append(b, 0x30, 0x00, 0x00, 0x00)
	b = binary.LittleEndian.AppendUint16(b, 100)
	b = binary.LittleEndian.AppendUint16(b, 0xFFFF)
	b = binary.LittleEndian.AppendUint16(b, 200)
	b = binary.LittleEndian.AppendUint16(b, 50)
	b = append(b, 0x00)
	return b
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cave.3d")
	require.NoError(t, os.WriteFile(path, sampleFile(), 0600))
	return path
}

func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// executeCommand runs the root command with args and returns stdout and stderr
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}
