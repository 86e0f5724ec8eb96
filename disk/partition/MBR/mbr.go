package MBR

import (
	"errors"
	"fmt"

	"github.com/aarsakian/ImageSanitizer/utils"
)

var PartitionTypes = map[uint8]string{0x07: "HPFS/NTFS/exFAT",
	0x0c: "W95 FAT32 (LBA)",
	0x0f: "Extended",
	0x17: "Hidden HPFS/NTFS",
	0x27: "Hidden NTFS Win"}

var ntfsPartitionTypes = map[uint8]bool{0x07: true, 0x17: true, 0x27: true}

var ErrTruncatedSector = errors.New("MBR sector truncated")

type MBR struct {
	BootCode       [446]byte //0-445
	PartitionTable [64]byte  //446-509
	Signature      [2]byte   //510-511
	Partitions     []Partition
}

type Partition struct {
	Flag     uint8
	StartCHS [3]byte
	Type     uint8
	EndCHS   [3]byte
	StartLBA uint32
	Size     uint32 //sectors
}

func Parse(data []byte) (MBR, error) {
	var mbr MBR
	if len(data) < 512 {
		return mbr, fmt.Errorf("%w: got %d bytes", ErrTruncatedSector, len(data))
	}
	utils.Unmarshal(data, &mbr)
	mbr.Partitions = LocatePartitions(mbr.PartitionTable[:])
	return mbr, nil
}

func LocatePartitions(data []byte) []Partition {
	pos := 0
	var partitions []Partition
	for pos+16 <= len(data) {
		var partition *Partition = new(Partition) //explicit is better
		utils.Unmarshal(data[pos:pos+16], partition)
		partitions = append(partitions, *partition)
		pos += 16
	}

	return partitions
}

func (mbr MBR) HasValidSignature() bool {
	return mbr.Signature[0] == 0x55 && mbr.Signature[1] == 0xAA
}

func (mbr MBR) IsProtective() bool {
	return mbr.Partitions[0].Type == 0xEE // 1st partition flag
}

// NTFSPartitions returns the allocated partition entries of NTFS type.
func (mbr MBR) NTFSPartitions() []Partition {
	var partitions []Partition
	for _, partition := range mbr.Partitions {
		if ntfsPartitionTypes[partition.Type] && partition.Size != 0 {
			partitions = append(partitions, partition)
		}
	}
	return partitions
}

func (partition Partition) GetOffset() uint64 {
	return uint64(partition.StartLBA)
}

// GetOffsetB is the partition start in bytes.
func (partition Partition) GetOffsetB() uint64 {
	return uint64(partition.StartLBA) * 512
}

func (partition Partition) GetPartitionType() string {
	return PartitionTypes[partition.Type]
}
