package img

import (
	"bytes"
	"path"
	"strings"

	extent "github.com/aarsakian/VMDK_Reader/extent"
)

type VMDKReader struct {
	PathToEvidenceFiles string
	fd                  extent.Extents
}

func (imgreader *VMDKReader) CreateHandler() {
	extension := path.Ext(imgreader.PathToEvidenceFiles)
	if strings.ToLower(extension) != ".vmdk" {
		panic("only VMDK Sparse images are supported")
	}
	imgreader.fd = extent.LocateExtents(imgreader.PathToEvidenceFiles)
	imgreader.fd.Parse()
}

func (imgreader VMDKReader) CloseHandler() {

}

func (imgreader VMDKReader) ReadFile(physicalOffset int64, length int) ([]byte, error) {
	var dataBuf bytes.Buffer
	dataBuf.Grow(length)
	imgreader.fd.RetrieveData(&dataBuf, physicalOffset, int64(length))
	return dataBuf.Bytes(), nil
}

func (imgreader VMDKReader) GetDiskSize() int64 {
	return imgreader.fd.GetHDSize()
}
