package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CalculateFileHash returns the hex SHA256 of a file's content. The catalog
// stores it so repeated transcriptions of the same audio can be matched.
func CalculateFileHash(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return HashReader(file)
}

// HashReader returns the hex SHA256 of everything read from r.
func HashReader(r io.Reader) (string, error) {
	hash := sha256.New()
	if _, err := io.Copy(hash, r); err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}
