package server

import (
	"os"

	"vidfetch-server/internal/config"
)

// PrepareFilesystem creates the download directory before anything tries
// to write into it.
func PrepareFilesystem(cfg *config.Config) error {
	return os.MkdirAll(cfg.DownloadDir, 0755)
}
