package utils

import (
	"os"
	"path/filepath"
	"testing"
)

type sampleHeader struct {
	Magic     [2]byte
	Signature string
	Small     uint8
	Signed    int8
	Word      uint16
	DWord     uint32
	QWord     uint64
}

func TestUnmarshal(t *testing.T) {
	data := []byte{
		0xEB, 0x52, // Magic
		'N', 'T', 'F', 'S', // Signature
		0x07,                   // Small
		0xF6,                   // Signed, -10
		0x00, 0x02,             // Word, 512
		0x01, 0x00, 0x00, 0x00, // DWord
		0x10, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // QWord
	}

	var header sampleHeader
	if err := Unmarshal(data, &header); err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	if header.Magic != [2]byte{0xEB, 0x52} {
		t.Errorf("Magic = %v", header.Magic)
	}
	if header.Signature != "NTFS" {
		t.Errorf("Signature = %q", header.Signature)
	}
	if header.Small != 7 {
		t.Errorf("Small = %d", header.Small)
	}
	if header.Signed != -10 {
		t.Errorf("Signed = %d", header.Signed)
	}
	if header.Word != 512 {
		t.Errorf("Word = %d", header.Word)
	}
	if header.DWord != 1 {
		t.Errorf("DWord = %d", header.DWord)
	}
	if header.QWord != 16 {
		t.Errorf("QWord = %d", header.QWord)
	}
}

func TestUnmarshalRejectsNonStruct(t *testing.T) {
	var target int
	if err := Unmarshal([]byte{0x00}, &target); err == nil {
		t.Error("expected error for non struct target")
	}
}

func TestHashes(t *testing.T) {
	data := []byte("abc")
	if digest := GetSHA1(data); digest != "a9993e364706816aba3e25717850c26c9cd0d89d" {
		t.Errorf("GetSHA1 = %s", digest)
	}
	if digest := GetMD5(data); digest != "900150983cd24fb0d6963f7d28e17f72" {
		t.Errorf("GetMD5 = %s", digest)
	}
}

func TestHashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.img")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}

	digest, err := HashFile(path, "SHA1")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if digest != GetSHA1([]byte("abc")) {
		t.Errorf("HashFile = %s", digest)
	}

	if _, err := HashFile(path, "CRC32"); err == nil {
		t.Error("expected error for unsupported hash")
	}
}

func TestFindEvidenceFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"disk.E01", "disk.E02", "disk.E03"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte{0}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	segments := FindEvidenceFiles(filepath.Join(dir, "disk.E01"))
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %v", segments)
	}
	if filepath.Base(segments[0]) != "disk.E01" || filepath.Base(segments[2]) != "disk.E03" {
		t.Errorf("segments out of order: %v", segments)
	}
}
