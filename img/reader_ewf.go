package img

import (
	"fmt"
	"path"
	"strings"

	ewfLib "github.com/aarsakian/EWF_Reader/ewf"

	"github.com/aarsakian/ImageSanitizer/logger"
	"github.com/aarsakian/ImageSanitizer/utils"
)

type EWFReader struct {
	PathToEvidenceFiles string
	fd                  ewfLib.EWF_Image
}

func (imgreader *EWFReader) CreateHandler() {
	extension := path.Ext(imgreader.PathToEvidenceFiles)
	if strings.ToLower(extension) != ".e01" {
		panic("only EWF images are supported")
	}
	var ewf_image ewfLib.EWF_Image
	filenames := utils.FindEvidenceFiles(imgreader.PathToEvidenceFiles)
	logger.SanitizerLogger.Info(fmt.Sprintf("parsing %d EWF segments", len(filenames)))

	ewf_image.ParseEvidence(filenames)

	imgreader.fd = ewf_image
}

func (imgreader EWFReader) CloseHandler() {

}

func (imgreader EWFReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	return imgreader.fd.RetrieveData(physicalOffset, int64(length)), nil
}

func (imgreader EWFReader) GetDiskSize() int64 {
	return int64(imgreader.fd.Chunksize) * int64(imgreader.fd.NofChunks)
}
