//go:build windows

package img

import (
	"log"
	"unsafe"

	"golang.org/x/sys/windows"
)

type DISK_GEOMETRY struct {
	Cylinders         int64
	MediaType         int32
	TracksPerCylinder int32
	SectorsPerTrack   int32
	BytesPerSector    int32
}

type largeInteger struct {
	LowPart  int32
	HighPart int32
}

func newLargeInteger(offset int64) largeInteger {
	return largeInteger{LowPart: int32(offset & 0xFFFFFFFF), HighPart: int32(offset >> 32)}
}

type WindowsReader struct {
	a_file string
	fd     windows.Handle
}

func newPhysicalDriveReader(pathToDisk string) DiskReader {
	return &WindowsReader{a_file: pathToDisk}
}

func (winreader *WindowsReader) CreateHandler() {
	file_ptr, _ := windows.UTF16PtrFromString(winreader.a_file)
	var templateHandle windows.Handle
	fd, err := windows.CreateFile(file_ptr, windows.FILE_READ_DATA,
		windows.FILE_SHARE_READ, nil,
		windows.OPEN_EXISTING, 0, templateHandle)
	if err != nil {
		log.Fatalln(err)
	}
	winreader.fd = fd
}

func (winreader WindowsReader) CloseHandler() {
	windows.Close(winreader.fd)
}

func (winreader WindowsReader) GetDiskSize() int64 {
	const IOCTL_DISK_GET_DRIVE_GEOMETRY = 0x70000
	const nByte_DISK_GEOMETRY = 24
	disk_geometry := DISK_GEOMETRY{}

	var junk *uint32
	var inBuffer *byte
	err := windows.DeviceIoControl(winreader.fd, IOCTL_DISK_GET_DRIVE_GEOMETRY,
		inBuffer, 0, (*byte)(unsafe.Pointer(&disk_geometry)), nByte_DISK_GEOMETRY, junk, nil)
	if err != nil {
		log.Fatalln(err)
	}

	return disk_geometry.Cylinders * int64(disk_geometry.TracksPerCylinder) *
		int64(disk_geometry.SectorsPerTrack) * int64(disk_geometry.BytesPerSector)
}

func (winreader WindowsReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	buffer := make([]byte, length)

	li := newLargeInteger(physicalOffset)
	var bytesRead uint32

	newLowOffset, err := windows.SetFilePointer(winreader.fd, li.LowPart,
		&li.HighPart, windows.FILE_BEGIN)
	li.LowPart = int32(newLowOffset)
	if err != nil {
		return nil, err
	}

	err = windows.ReadFile(winreader.fd, buffer, &bytesRead, nil)
	if err != nil {
		return nil, err
	}
	return buffer, nil
}
