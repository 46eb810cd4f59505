package xlate

import (
	"testing"

	"github.com/arm64x86/dbt/internal/buffer"
	"github.com/arm64x86/dbt/internal/decoder"
)

func TestTranslateCryptoAESE(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCrypto, Mnemonic: "AESE", Rd: 0, Rn: 1}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for AESE")
	}
}

func TestTranslateCryptoPMULL(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCrypto, Mnemonic: "PMULL", Rd: 0, Rn: 1, Rm: 2}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for PMULL")
	}
}

func TestTranslateCryptoCRC32CWord(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCrypto, Mnemonic: "CRC32CW", Rd: 0, Rn: 1, Rm: 2, Size: 4}
	if err := tr.translateOne(buf, d, 0x1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.CurrentSize() == 0 {
		t.Fatal("expected host code for CRC32CW")
	}
}

func TestTranslateCryptoPlainCRC32Unsupported(t *testing.T) {
	tr := New(true, true)
	buf := buffer.New(4096)
	d := decoder.Decoded{Op: decoder.OpCrypto, Mnemonic: "CRC32W", Rd: 0, Rn: 1, Rm: 2, Size: 4}
	err := tr.translateOne(buf, d, 0x1000)
	if err == nil {
		t.Fatal("expected plain (non-Castagnoli) CRC32 to be unsupported")
	}
	if _, ok := err.(*UnsupportedError); !ok {
		t.Fatalf("expected an *UnsupportedError, got %T", err)
	}
}
