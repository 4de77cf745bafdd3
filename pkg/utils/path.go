package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// CreateFolder creates every given folder if it does not exist yet.
func CreateFolder(folders ...string) error {
	for _, folder := range folders {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", folder, err)
		}
	}
	return nil
}

// RemoveFile deletes the given paths after waiting delaySecond seconds.
// Missing files are not an error, the caller may already have cleaned up.
func RemoveFile(delaySecond int, paths ...string) error {
	if delaySecond > 0 {
		time.Sleep(time.Duration(delaySecond) * time.Second)
	}
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("[CLEANUP] Failed to remove %s: %v", path, err)
			return err
		}
	}
	return nil
}
