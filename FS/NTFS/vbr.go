package ntfs

import (
	"errors"
	"fmt"

	"github.com/aarsakian/ImageSanitizer/interval"
	"github.com/aarsakian/ImageSanitizer/logger"
	"github.com/aarsakian/ImageSanitizer/utils"
)

// MetadataRecordIndex is the position of the file table's self describing
// metadata record counted in records from the table base. The convention
// places it at the fourth record slot.
const MetadataRecordIndex = 3

// vbrMinSize covers the highest field offset of the VBR layout
// (clusters per record byte at offset 64).
const vbrMinSize = 65

var ErrTruncatedHeader = errors.New("volume boot record truncated")

type VBR struct { //Volume Boot Record
	JumpInstruction   [3]byte //0-2
	Signature         string  //4 bytes NTFS 3-6
	NotUsed1          [4]byte //7-10
	BytesPerSector    uint16  //11-12
	SectorsPerCluster int8    //13 size class encoded
	NotUsed2          [26]byte
	TotalSectors      uint64 //40-47
	MFTCluster        uint64 //48-55 logical cluster of $MFT
	MFTMirrCluster    uint64 //56-63 logical cluster of $MFTMirr
	ClustersPerRecord int8   //64 size class encoded
}

// Geometry is the decoded view of the VBR fields the sanitizer needs.
type Geometry struct {
	SectorSize          uint64
	ClusterSize         uint64 //bytes
	FileTableOffset     uint64 //bytes from volume start
	FileTableMirrOffset uint64
	RecordSize          uint64 //bytes
}

// DecodeSizeClass decodes the signed byte convention used for the cluster
// and file table record sizes. A non negative byte is the size itself, a
// negative byte encodes a power of two, size = 2^(-value).
func DecodeSizeClass(val int8) uint64 {
	if val >= 0 {
		return uint64(val)
	}
	return uint64(1) << uint(-int(val))
}

func Parse(data []byte) (VBR, error) {
	var vbr VBR
	if len(data) < vbrMinSize {
		return vbr, fmt.Errorf("%w: got %d bytes, need %d", ErrTruncatedHeader, len(data), vbrMinSize)
	}
	utils.Unmarshal(data, &vbr)
	return vbr, nil
}

func (vbr VBR) HasValidSignature() bool {
	return vbr.Signature == "NTFS"
}

func (vbr VBR) GetGeometry() Geometry {
	sectorSize := uint64(vbr.BytesPerSector)
	clusterSize := sectorSize * DecodeSizeClass(vbr.SectorsPerCluster)
	return Geometry{
		SectorSize:          sectorSize,
		ClusterSize:         clusterSize,
		FileTableOffset:     vbr.MFTCluster * clusterSize,
		FileTableMirrOffset: vbr.MFTMirrCluster * clusterSize,
		RecordSize:          DecodeSizeClass(vbr.ClustersPerRecord),
	}
}

// FileTableIntervals derives the byte ranges of the file table worth
// preserving, offset by baseOffsetB when the volume does not start at byte
// zero of the image. Per table these are two record sized windows, one at
// the table base and one at the metadata record slot. The records in
// between hold ordinary entries and are not protected.
func (vbr VBR) FileTableIntervals(baseOffsetB uint64) []interval.Interval {
	geometry := vbr.GetGeometry()

	var intervals []interval.Interval
	for _, tableOffset := range []uint64{geometry.FileTableOffset, geometry.FileTableMirrOffset} {
		base := baseOffsetB + tableOffset
		metadataRecord := base + MetadataRecordIndex*geometry.RecordSize
		intervals = append(intervals,
			interval.Interval{Start: base, End: base + geometry.RecordSize},
			interval.Interval{Start: metadataRecord, End: metadataRecord + geometry.RecordSize},
		)
		logger.SanitizerLogger.Info(
			fmt.Sprintf("file table at %d record size %d, windows at %d and %d", base, geometry.RecordSize, base, metadataRecord))
	}
	return intervals
}
