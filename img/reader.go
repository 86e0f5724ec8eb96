package img

// DiskReader hides the container format of the image under inspection,
// raw files, EWF evidence sets, VMDK sparse images and physical drives.
type DiskReader interface {
	CreateHandler()
	CloseHandler()
	ReadFile(int64, int) ([]byte, error)
	GetDiskSize() int64
}

func GetHandler(pathToDisk string, mode string) DiskReader {

	var dr DiskReader
	switch mode {
	case "physicalDrive":
		dr = newPhysicalDriveReader(pathToDisk)
	case "ewf":
		dr = &EWFReader{PathToEvidenceFiles: pathToDisk}
	case "vmdk":
		dr = &VMDKReader{PathToEvidenceFiles: pathToDisk}
	default:
		dr = &RawReader{PathToEvidenceFiles: pathToDisk}
	}
	dr.CreateHandler()

	return dr
}
