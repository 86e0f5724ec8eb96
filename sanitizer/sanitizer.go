package sanitizer

import (
	"context"
	"errors"
	"fmt"
	"os"

	ntfsLib "github.com/aarsakian/ImageSanitizer/FS/NTFS"
	"github.com/aarsakian/ImageSanitizer/config"
	"github.com/aarsakian/ImageSanitizer/crypt"
	mbrLib "github.com/aarsakian/ImageSanitizer/disk/partition/MBR"
	"github.com/aarsakian/ImageSanitizer/fixture"
	"github.com/aarsakian/ImageSanitizer/img"
	"github.com/aarsakian/ImageSanitizer/interval"
	"github.com/aarsakian/ImageSanitizer/logger"
	"github.com/aarsakian/ImageSanitizer/metadata"
	"github.com/aarsakian/ImageSanitizer/wiper"
)

// Plan is the full classification of one image, the protected byte ranges
// and their exact complement, the ranges safe to zero.
type Plan struct {
	ImageSize  uint64
	Regions    []metadata.Region
	FileTables []interval.Interval
	Protected  []interval.Interval
	Zero       []interval.Interval
}

// Options select the image, the source of the metadata report and what to do
// with the computed plan.
type Options struct {
	ImagePath       string
	Mode            string // raw, ewf, vmdk, physicalDrive
	ReportPath      string // read the report from a file instead of the crypt session
	Password        string
	DryRun          bool
	FixtureLocation string
}

type Sanitizer struct {
	Cfg config.Config
}

// BuildPlan unions the report regions with the file table windows and
// complements over [0, imageSize). Pure, the wiper consumes the result.
func BuildPlan(regions []metadata.Region, fileTables []interval.Interval, imageSize uint64) Plan {
	protected := append(metadata.Intervals(regions), fileTables...)
	merged := interval.Merge(protected)
	return Plan{
		ImageSize:  imageSize,
		Regions:    regions,
		FileTables: fileTables,
		Protected:  merged,
		Zero:       interval.Complement(merged, 0, imageSize),
	}
}

// ExtractFileTableRegions probes the first sector of the decrypted volume.
// An NTFS volume yields the two windows per file table, a partitioned volume
// is walked for NTFS partitions whose windows are taken at the partition
// offset together with the partition's own boot sector. Any other content is
// a skip, not an error, only the report derived protection applies then.
func ExtractFileTableRegions(volume img.DiskReader) ([]interval.Interval, error) {
	sector, err := volume.ReadFile(0, metadata.SectorSize)
	if err != nil {
		// a volume that cannot deliver a whole first sector has no boot
		// record worth protecting
		return nil, fmt.Errorf("%w: reading first volume sector: %s", ntfsLib.ErrTruncatedHeader, err)
	}

	vbr, err := ntfsLib.Parse(sector)
	if err != nil {
		return nil, err
	}
	if vbr.HasValidSignature() {
		return vbr.FileTableIntervals(0), nil
	}

	mbr, err := mbrLib.Parse(sector)
	if err != nil || !mbr.HasValidSignature() {
		logger.SanitizerLogger.Info("volume holds neither an NTFS boot record nor a partition table, skipping file table extraction")
		return nil, nil
	}

	var intervals []interval.Interval
	for _, partition := range mbr.NTFSPartitions() {
		offsetB := partition.GetOffsetB()
		partitionSector, err := volume.ReadFile(int64(offsetB), metadata.SectorSize)
		if err != nil {
			return nil, fmt.Errorf("reading boot sector of partition at %d: %w", offsetB, err)
		}
		partitionVBR, err := ntfsLib.Parse(partitionSector)
		if err != nil {
			return nil, err
		}
		if !partitionVBR.HasValidSignature() {
			logger.SanitizerLogger.Warning(fmt.Sprintf("partition at %d typed NTFS without NTFS signature, skipped", offsetB))
			continue
		}
		intervals = append(intervals, interval.Interval{Start: offsetB, End: offsetB + metadata.SectorSize})
		intervals = append(intervals, partitionVBR.FileTableIntervals(offsetB)...)
	}
	return intervals, nil
}

// Plan computes the classification for the image without writing anything.
func (sanitizer Sanitizer) Plan(reportData []byte, volume img.DiskReader, imageSize uint64) (Plan, error) {
	regions, err := metadata.ParseReport(reportData)
	if err != nil {
		// proceeding with a partial protection set could zero structural bytes
		return Plan{}, err
	}

	fileTables, err := ExtractFileTableRegions(volume)
	if err != nil {
		if errors.Is(err, ntfsLib.ErrTruncatedHeader) {
			logger.SanitizerLogger.Warning(fmt.Sprintf("file table extraction aborted: %s", err))
			fileTables = nil
		} else {
			return Plan{}, err
		}
	}

	return BuildPlan(regions, fileTables, imageSize), nil
}

// Run executes the whole pipeline, map the container, capture the report,
// probe the decrypted volume, compute the plan and unless DryRun is set
// zero-fill the image and optionally package it as a fixture.
func (sanitizer Sanitizer) Run(ctx context.Context, opts Options) (Plan, error) {
	imageReader := img.GetHandler(opts.ImagePath, opts.Mode)
	imageSize := imageReader.GetDiskSize()
	imageReader.CloseHandler()
	if imageSize <= 0 {
		return Plan{}, fmt.Errorf("cannot determine size of image %s", opts.ImagePath)
	}

	var plan Plan
	var err error
	if opts.ReportPath != "" {
		plan, err = sanitizer.planFromReportFile(opts, uint64(imageSize))
	} else {
		plan, err = sanitizer.planFromSession(ctx, opts, uint64(imageSize))
	}
	if err != nil {
		return Plan{}, err
	}

	if opts.DryRun {
		return plan, nil
	}
	if opts.Mode != "raw" {
		return plan, fmt.Errorf("zero-fill writes require a raw image, not %s", opts.Mode)
	}

	target, err := os.OpenFile(opts.ImagePath, os.O_WRONLY, 0)
	if err != nil {
		return plan, err
	}
	defer target.Close()

	w := wiper.Wiper{SectorSize: metadata.SectorSize, ChunkSize: sanitizer.Cfg.Wiper.ChunkSize}
	written, err := w.ZeroRanges(target, plan.Zero)
	if err != nil {
		return plan, err
	}
	logger.SanitizerLogger.Info(fmt.Sprintf("zeroed %d of %d bytes", written, imageSize))

	if opts.FixtureLocation != "" {
		packager := fixture.NewPackager(sanitizer.Cfg.Fixture)
		if _, err := packager.Package(opts.ImagePath, opts.FixtureLocation); err != nil {
			return plan, err
		}
	}
	return plan, nil
}

// planFromReportFile takes a previously captured report and probes the image
// itself as the already decrypted volume.
func (sanitizer Sanitizer) planFromReportFile(opts Options, imageSize uint64) (Plan, error) {
	reportData, err := os.ReadFile(opts.ReportPath)
	if err != nil {
		return Plan{}, fmt.Errorf("reading report %s: %w", opts.ReportPath, err)
	}

	volumeReader := img.GetHandler(opts.ImagePath, opts.Mode)
	defer volumeReader.CloseHandler()
	return sanitizer.Plan(reportData, volumeReader, imageSize)
}

// planFromSession maps the container, captures the report and probes the
// decrypted device while it is mapped. The mapping is released on every exit
// path and always before the caller writes to the container.
func (sanitizer Sanitizer) planFromSession(ctx context.Context, opts Options, imageSize uint64) (Plan, error) {
	session, err := crypt.Open(ctx, sanitizer.Cfg.Crypt, opts.ImagePath, opts.Password)
	if err != nil {
		return Plan{}, err
	}
	defer session.Close(ctx)

	reportData, err := session.DumpMetadata(ctx)
	if err != nil {
		return Plan{}, err
	}

	volumeReader := img.GetHandler(session.DevicePath, "raw")
	plan, err := sanitizer.Plan(reportData, volumeReader, imageSize)
	volumeReader.CloseHandler()
	if err != nil {
		return Plan{}, err
	}

	if err := session.Close(ctx); err != nil {
		return Plan{}, err
	}
	return plan, nil
}
