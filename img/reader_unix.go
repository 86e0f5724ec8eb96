//go:build !windows

package img

import (
	"github.com/aarsakian/ImageSanitizer/logger"
	"golang.org/x/sys/unix"
)

type UnixReader struct {
	pathToDisk string
	fd         int
}

func newPhysicalDriveReader(pathToDisk string) DiskReader {
	return &UnixReader{pathToDisk: pathToDisk}
}

func (unixreader *UnixReader) CreateHandler() {
	fd, err := unix.Open(unixreader.pathToDisk, unix.O_RDONLY, 0)
	if err != nil {
		logger.SanitizerLogger.Error(err)
		return
	}
	unixreader.fd = fd
}

func (unixreader UnixReader) CloseHandler() {
	unix.Close(unixreader.fd)
}

func (unixreader UnixReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	buffer := make([]byte, length)
	if _, err := unix.Seek(unixreader.fd, physicalOffset, unix.SEEK_SET); err != nil {
		return nil, err
	}
	if _, err := unix.Read(unixreader.fd, buffer); err != nil {
		logger.SanitizerLogger.Error(err)
		return nil, err
	}
	return buffer, nil
}

func (unixreader UnixReader) GetDiskSize() int64 {
	size, err := unix.Seek(unixreader.fd, 0, unix.SEEK_END)
	if err != nil {
		logger.SanitizerLogger.Error(err)
		return -1
	}
	return size
}
