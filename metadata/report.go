package metadata

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/aarsakian/ImageSanitizer/interval"
	"github.com/aarsakian/ImageSanitizer/logger"
	"golang.org/x/text/encoding/unicode"
)

const (
	// ExpectedHeaderSize is the size of the container header area. Some
	// container formats report an inflated header size, only the first
	// sector of such a header is genuinely structural.
	ExpectedHeaderSize = 8192

	SectorSize = 512
)

const (
	KindVolumeHeader       = "volume-header"
	KindEncryptionMetadata = "encryption-metadata"
	KindContainerHeader    = "container-header"
)

var ErrMalformedReport = errors.New("malformed metadata report")

// Region is one structurally significant area of the container as stated by
// the metadata report of the encryption tool.
type Region struct {
	Kind     string
	Interval interval.Interval
}

// ParseReport extracts the protected regions from the textual report of the
// metadata dump command. Record lines follow the grammar
//
//	Region: <kind> offset=<bytes> size=<bytes>
//
// Non record lines (banners, blank lines) are skipped. A record line that
// deviates from the grammar fails the whole report, a report without a single
// record is equally invalid. The fixed container header interval [0, 8192) is
// always part of the result.
func ParseReport(data []byte) ([]Region, error) {
	text, err := decodeReportText(data)
	if err != nil {
		return nil, err
	}

	regions := []Region{
		{Kind: KindContainerHeader, Interval: interval.Interval{Start: 0, End: ExpectedHeaderSize}},
	}

	recordsFound := 0
	lineNum := 0
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "Region:") {
			continue
		}

		region, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", ErrMalformedReport, lineNum, err)
		}
		logger.SanitizerLogger.Info(fmt.Sprintf("report region %s %s", region.Kind, region.Interval))
		regions = append(regions, region)
		recordsFound++
	}

	if recordsFound == 0 {
		return nil, fmt.Errorf("%w: no region records found", ErrMalformedReport)
	}
	return regions, nil
}

func parseRecord(line string) (Region, error) {
	fields := strings.Fields(strings.TrimPrefix(line, "Region:"))
	if len(fields) != 3 {
		return Region{}, fmt.Errorf("expected kind, offset and size, got %d fields", len(fields))
	}

	kind := fields[0]
	offset, err := parseField(fields[1], "offset")
	if err != nil {
		return Region{}, err
	}
	size, err := parseField(fields[2], "size")
	if err != nil {
		return Region{}, err
	}

	if kind == KindVolumeHeader && size > ExpectedHeaderSize {
		logger.SanitizerLogger.Warning(
			fmt.Sprintf("volume header size %d exceeds expected %d, keeping first sector only", size, ExpectedHeaderSize))
		size = SectorSize
	}

	end := offset + size
	if end < offset {
		return Region{}, fmt.Errorf("region %s at %d size %d overflows", kind, offset, size)
	}
	return Region{Kind: kind, Interval: interval.Interval{Start: offset, End: end}}, nil
}

func parseField(field string, name string) (uint64, error) {
	value, found := strings.CutPrefix(field, name+"=")
	if !found {
		return 0, fmt.Errorf("expected %s=<bytes>, got %q", name, field)
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, value)
	}
	return parsed, nil
}

// decodeReportText converts a report captured from a Windows build of the
// dump tool, which writes UTF-16 with a BOM, to plain UTF-8.
func decodeReportText(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrMalformedReport, err)
		}
		return string(decoded), nil
	}
	return string(data), nil
}

// Intervals flattens the regions to their byte ranges.
func Intervals(regions []Region) []interval.Interval {
	var intervals []interval.Interval
	for _, region := range regions {
		intervals = append(intervals, region.Interval)
	}
	return intervals
}
