package img

import (
	"fmt"
	"os"

	"github.com/aarsakian/ImageSanitizer/logger"
)

type RawReader struct {
	PathToEvidenceFiles string
	fd                  *os.File
}

func (imgreader *RawReader) CreateHandler() {
	file, err := os.Open(imgreader.PathToEvidenceFiles)
	if err != nil {
		logger.SanitizerLogger.Error(fmt.Sprintf("err %s in getting handle of file", err))
		return
	}
	imgreader.fd = file
}

func (imgreader RawReader) CloseHandler() {
	imgreader.fd.Close()
}

func (imgreader RawReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {

	data := make([]byte, length)
	_, err := imgreader.fd.ReadAt(data, physicalOffset)
	if err != nil {
		msg := fmt.Sprintf("error %s reading file at %d", err, physicalOffset)
		logger.SanitizerLogger.Error(msg)
		return nil, err
	}
	return data, nil
}

func (imgreader RawReader) GetDiskSize() int64 {
	finfo, err := os.Stat(imgreader.PathToEvidenceFiles)
	if err != nil {
		return -1
	}
	return finfo.Size()
}
