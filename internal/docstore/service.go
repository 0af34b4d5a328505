package docstore

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"textile-trade-tracker/internal/pkg/config"
)

// Service keeps generated print documents on disk, one folder per order.
type Service interface {
	Save(folder, filename string, data []byte) (string, error)
	ListFolders() ([]string, error)
	DeleteFolder(folder string) error
}

type DefaultService struct {
	cfg *config.DocumentsCfg
}

func NewDefaultService(cfg *config.DocumentsCfg) Service {
	return &DefaultService{cfg: cfg}
}

func (d *DefaultService) Save(folder, filename string, data []byte) (string, error) {
	dir := filepath.Join(d.cfg.DirPath, folder)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", &ErrWriteFile{Err: err}
	}

	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", &ErrWriteFile{Err: err}
	}
	return path, nil
}

func (d *DefaultService) ListFolders() ([]string, error) {
	items, err := os.ReadDir(d.cfg.DirPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &ErrReadDir{Err: err}
	}

	var folders []string
	for _, item := range items {
		if item.IsDir() {
			folders = append(folders, item.Name())
		}
	}
	return folders, nil
}

func (d *DefaultService) DeleteFolder(folder string) error {
	return os.RemoveAll(filepath.Join(d.cfg.DirPath, folder))
}

const folderPrefix = "order"

// FolderFor names an order's document folder. The order number leads so
// the reconciler can map folders back to orders.
func FolderFor(orderNo int, partyName string) string {
	return slug.Make(strings.Join([]string{folderPrefix, strconv.Itoa(orderNo), partyName}, " "))
}

// OrderNoOf extracts the order number from a folder name produced by
// FolderFor. ok is false for folders that don't follow the convention.
func OrderNoOf(folder string) (int, bool) {
	parts := strings.SplitN(folder, "-", 3)
	if len(parts) < 2 || parts[0] != folderPrefix {
		return 0, false
	}
	no, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return no, true
}
