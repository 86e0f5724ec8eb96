package ntfs

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/aarsakian/ImageSanitizer/interval"
)

func buildVBRSector(sectorSize uint16, clusterByte byte, mftCluster uint64,
	mftMirrCluster uint64, recordByte byte) []byte {
	sector := make([]byte, 512)
	copy(sector[3:7], "NTFS")
	binary.LittleEndian.PutUint16(sector[11:13], sectorSize)
	sector[13] = clusterByte
	binary.LittleEndian.PutUint64(sector[48:56], mftCluster)
	binary.LittleEndian.PutUint64(sector[56:64], mftMirrCluster)
	sector[64] = recordByte
	return sector
}

func TestDecodeSizeClass(t *testing.T) {
	tests := []struct {
		name     string
		val      int8
		expected uint64
	}{
		{"direct positive value", 12, 12},
		{"zero", 0, 0},
		{"negative exponent", -3, 8},
		{"typical record size byte", -10, 1024},
		{"largest direct value", 127, 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if decoded := DecodeSizeClass(tt.val); decoded != tt.expected {
				t.Errorf("DecodeSizeClass(%d) = %d, expected %d", tt.val, decoded, tt.expected)
			}
		})
	}
}

func TestParse(t *testing.T) {
	sector := buildVBRSector(512, 8, 4, 8, 0xF6)

	vbr, err := Parse(sector)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if !vbr.HasValidSignature() {
		t.Errorf("expected valid NTFS signature, got %q", vbr.Signature)
	}
	if vbr.BytesPerSector != 512 {
		t.Errorf("BytesPerSector = %d, expected 512", vbr.BytesPerSector)
	}
	if vbr.SectorsPerCluster != 8 {
		t.Errorf("SectorsPerCluster = %d, expected 8", vbr.SectorsPerCluster)
	}
	if vbr.MFTCluster != 4 || vbr.MFTMirrCluster != 8 {
		t.Errorf("MFT clusters = %d, %d, expected 4, 8", vbr.MFTCluster, vbr.MFTMirrCluster)
	}
	if vbr.ClustersPerRecord != -10 {
		t.Errorf("ClustersPerRecord = %d, expected -10", vbr.ClustersPerRecord)
	}

	geometry := vbr.GetGeometry()
	if geometry.ClusterSize != 4096 {
		t.Errorf("ClusterSize = %d, expected 4096", geometry.ClusterSize)
	}
	if geometry.FileTableOffset != 16384 {
		t.Errorf("FileTableOffset = %d, expected 16384", geometry.FileTableOffset)
	}
	if geometry.RecordSize != 1024 {
		t.Errorf("RecordSize = %d, expected 1024", geometry.RecordSize)
	}
}

func TestParseTruncated(t *testing.T) {
	tests := []struct {
		name   string
		length int
	}{
		{"empty buffer", 0},
		{"cut before record size byte", 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(make([]byte, tt.length))
			if !errors.Is(err, ErrTruncatedHeader) {
				t.Errorf("expected ErrTruncatedHeader, got %v", err)
			}
		})
	}
}

func TestParseForeignSignature(t *testing.T) {
	sector := buildVBRSector(512, 8, 4, 8, 0xF6)
	copy(sector[3:7], "EXFA")

	vbr, err := Parse(sector)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if vbr.HasValidSignature() {
		t.Error("expected foreign signature to be rejected")
	}
}

func TestFileTableIntervals(t *testing.T) {
	// cluster size 512*8 = 4096, record size 2^10 = 1024
	sector := buildVBRSector(512, 8, 4, 8, 0xF6)

	vbr, err := Parse(sector)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	expected := []interval.Interval{
		{Start: 16384, End: 17408}, // $MFT base window
		{Start: 19456, End: 20480}, // $MFT metadata record window
		{Start: 32768, End: 33792}, // $MFTMirr base window
		{Start: 35840, End: 36864}, // $MFTMirr metadata record window
	}
	intervals := vbr.FileTableIntervals(0)
	if len(intervals) != len(expected) {
		t.Fatalf("expected %v got %v", expected, intervals)
	}
	for i := range expected {
		if intervals[i] != expected[i] {
			t.Fatalf("expected %v got %v", expected, intervals)
		}
	}
}

func TestFileTableIntervalsWithBaseOffset(t *testing.T) {
	sector := buildVBRSector(512, 8, 4, 8, 0xF6)

	vbr, err := Parse(sector)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	const partitionOffset = 1048576
	for i, iv := range vbr.FileTableIntervals(partitionOffset) {
		unshifted := vbr.FileTableIntervals(0)[i]
		if iv.Start != unshifted.Start+partitionOffset || iv.End != unshifted.End+partitionOffset {
			t.Errorf("window %d not shifted by partition offset: %s vs %s", i, iv, unshifted)
		}
	}
}

func TestFileTableIntervalsDirectClusterCount(t *testing.T) {
	// positive record size byte is taken verbatim
	sector := buildVBRSector(512, 2, 10, 20, 12)

	vbr, err := Parse(sector)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}

	geometry := vbr.GetGeometry()
	if geometry.ClusterSize != 1024 {
		t.Errorf("ClusterSize = %d, expected 1024", geometry.ClusterSize)
	}
	if geometry.RecordSize != 12 {
		t.Errorf("RecordSize = %d, expected 12", geometry.RecordSize)
	}

	intervals := vbr.FileTableIntervals(0)
	base := uint64(10 * 1024)
	if intervals[0].Start != base || intervals[0].End != base+12 {
		t.Errorf("base window = %s, expected [%d, %d)", intervals[0], base, base+12)
	}
	if intervals[1].Start != base+3*12 {
		t.Errorf("metadata window starts at %d, expected %d", intervals[1].Start, base+3*12)
	}
}
