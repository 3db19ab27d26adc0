package dashboard

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/gin-gonic/gin"
)

// hardwareInfo describes the machine the dashboard runs on. GPU
// detection is not attempted; the fields stay at their CPU-only
// defaults so the page renders the same shape everywhere.
func hardwareInfo(modelsDir string) map[string]any {
	info := map[string]any{
		"gpu_name":         "CPU only",
		"gpu_available":    false,
		"vram_total":       nil,
		"vram_used":        nil,
		"os_info":          runtime.GOOS + " " + runtime.GOARCH,
		"go_version":       runtime.Version(),
		"disk_free_gb":     nil,
		"installed_models": modelNames(modelsDir),
	}

	if home, err := os.UserHomeDir(); err == nil {
		if free, err := diskFreeGB(home); err == nil {
			info["disk_free_gb"] = free
		}
	}
	return info
}

func diskFreeGB(path string) (float64, error) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, err
	}
	free := float64(st.Bavail) * float64(st.Bsize)
	return math.Round(free/(1<<30)*10) / 10, nil
}

// modelNames lists the installed model directories.
func modelNames(dir string) []string {
	names := []string{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return names
	}
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names
}

// installedModels lists the installed model directories with their
// on-disk size.
func installedModels(dir string) []gin.H {
	models := []gin.H{}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		var size int64
		_ = filepath.WalkDir(filepath.Join(dir, entry.Name()), func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			if fi, err := d.Info(); err == nil {
				size += fi.Size()
			}
			return nil
		})
		models = append(models, gin.H{
			"name":    entry.Name(),
			"size_mb": math.Round(float64(size)/(1<<20)*10) / 10,
		})
	}
	return models
}
