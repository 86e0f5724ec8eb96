package utils

import (
	"crypto/md5"
	"crypto/sha1"
	"fmt"
	"hash"
	"io"
	"os"
)

func GetSHA1(data []byte) string {
	return fmt.Sprintf("%x", sha1.Sum(data))

}

func GetMD5(data []byte) string {
	return fmt.Sprintf("%x", md5.Sum(data))
}

// HashFile streams the file through the selected hash, large images do not
// fit in memory.
func HashFile(fname string, hashType string) (string, error) {
	var hasher hash.Hash
	switch hashType {
	case "MD5":
		hasher = md5.New()
	case "SHA1":
		hasher = sha1.New()
	default:
		return "", fmt.Errorf("only supported hashes are MD5 or SHA1 and not %s", hashType)
	}

	file, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer file.Close()

	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}
