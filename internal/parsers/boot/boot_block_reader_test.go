package boot

import (
	"encoding/binary"
	"testing"

	"github.com/deploymenttheory/go-macfs/internal/types"
)

func createTestBootBlocks(signature uint16, system, shell string) []byte {
	data := make([]byte, types.BootBlocksSize)
	binary.BigEndian.PutUint16(data[0:2], signature)
	binary.BigEndian.PutUint32(data[2:6], 0x60000086)
	binary.BigEndian.PutUint16(data[6:8], 0x4418)
	data[10] = byte(len(system))
	copy(data[11:26], system)
	data[26] = byte(len(shell))
	copy(data[27:42], shell)
	return data
}

func TestBootBlockReader(t *testing.T) {
	testCases := []struct {
		name         string
		data         []byte
		wantBootable bool
		wantSystem   string
		wantShell    string
	}{
		{
			name:         "bootable",
			data:         createTestBootBlocks(types.BootBlockSignature, "System", "Finder"),
			wantBootable: true,
			wantSystem:   "System",
			wantShell:    "Finder",
		},
		{
			name: "blank boot blocks",
			data: make([]byte, types.BootBlocksSize),
		},
		{
			name: "names ignored without signature",
			data: createTestBootBlocks(0x0000, "System", "Finder"),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := NewBootBlockReader(tc.data)
			if err != nil {
				t.Fatalf("NewBootBlockReader() failed: %v", err)
			}
			if got := r.IsBootable(); got != tc.wantBootable {
				t.Errorf("IsBootable() = %v, want %v", got, tc.wantBootable)
			}
			if got := r.SystemName(); got != tc.wantSystem {
				t.Errorf("SystemName() = %q, want %q", got, tc.wantSystem)
			}
			if got := r.Header().ShellName; got != tc.wantShell {
				t.Errorf("Header().ShellName = %q, want %q", got, tc.wantShell)
			}
		})
	}
}

func TestBootBlockReaderShort(t *testing.T) {
	if _, err := NewBootBlockReader(make([]byte, 10)); err == nil {
		t.Error("NewBootBlockReader() succeeded on 10 bytes, want error")
	}
}
