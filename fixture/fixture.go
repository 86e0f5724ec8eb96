package fixture

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/aarsakian/ImageSanitizer/config"
	"github.com/aarsakian/ImageSanitizer/logger"
	"github.com/aarsakian/ImageSanitizer/utils"
)

// Packager turns a sanitized image into a distributable fixture, a
// compressed copy plus a digest sidecar of the uncompressed image. Zeroed
// user data areas compress to almost nothing, which is the point of
// sanitizing before sharing.
type Packager struct {
	Compression string
	Level       int
	Hash        string
}

func NewPackager(cfg config.FixtureConfig) Packager {
	return Packager{Compression: cfg.Compression, Level: cfg.Level, Hash: cfg.Hash}
}

// Package writes <location>/<image base>.<ext> and the digest sidecar,
// returning the archive path.
func (packager Packager) Package(imagePath string, location string) (string, error) {
	if err := os.MkdirAll(location, 0750); err != nil && !os.IsExist(err) {
		return "", err
	}

	source, err := os.Open(imagePath)
	if err != nil {
		return "", err
	}
	defer source.Close()

	archivePath := filepath.Join(location, filepath.Base(imagePath)+packager.extension())
	archive, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer archive.Close()

	if err := packager.compress(archive, source); err != nil {
		return "", fmt.Errorf("compressing %s: %w", imagePath, err)
	}

	digest, err := utils.HashFile(imagePath, packager.Hash)
	if err != nil {
		return "", err
	}
	sidecar := archivePath + "." + strings.ToLower(packager.Hash)
	content := fmt.Sprintf("%s  %s\n", digest, filepath.Base(imagePath))
	if err := os.WriteFile(sidecar, []byte(content), 0644); err != nil {
		return "", err
	}

	logger.SanitizerLogger.Info(fmt.Sprintf("fixture packaged at %s, %s %s", archivePath, packager.Hash, digest))
	return archivePath, nil
}

func (packager Packager) extension() string {
	if packager.Compression == "gzip" {
		return ".gz"
	}
	return ".zst"
}

func (packager Packager) compress(dst io.Writer, src io.Reader) error {
	switch packager.Compression {
	case "gzip":
		level := packager.Level
		if level == 0 {
			level = gzip.DefaultCompression
		}
		writer, err := gzip.NewWriterLevel(dst, level)
		if err != nil {
			return err
		}
		if _, err := io.Copy(writer, src); err != nil {
			return err
		}
		return writer.Close()
	case "zstd", "":
		writer, err := zstd.NewWriter(dst,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(packager.Level)))
		if err != nil {
			return err
		}
		if _, err := io.Copy(writer, src); err != nil {
			writer.Close()
			return err
		}
		return writer.Close()
	default:
		return fmt.Errorf("unsupported compression %s", packager.Compression)
	}
}
