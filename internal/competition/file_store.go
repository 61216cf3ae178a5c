package competition

import (
	"os"
	"pcd/internal/competition/interfaces"
	"pcd/internal/models"
	"pcd/internal/providers"

	json "github.com/goccy/go-json"
)

// FileStore persists the whole ledger store to a single zstd-compressed json
// file and restores it on boot. Writes go through a tmp file plus rename so
// a crash mid-save never corrupts the previous snapshot.
type FileStore struct {
	store      *models.Store
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileStore(compressor interfaces.CompressorInterface, store *models.Store, logger providers.Logger) *FileStore {
	return &FileStore{
		store:      store,
		compressor: compressor,
		logger:     logger,
	}
}

func (f *FileStore) SaveToFile(fileName string) error {
	storage := models.StorageV1{
		Version: models.StorageFormatVersion,
		Rows:    f.store.Rows(),
	}

	jsonData, err := json.Marshal(storage)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileStore) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressedData, err := f.compressor.Decompress(data)
	if err != nil {
		return err
	}

	var storage models.StorageV1
	if err := json.Unmarshal(decompressedData, &storage); err != nil {
		return err
	}
	if storage.Rows == nil {
		f.logger.Warnf(providers.TypeApp, "Snapshot file %s has no rows, starting empty", fileName)
		return nil
	}
	if storage.Version != models.StorageFormatVersion {
		f.logger.Warnf(providers.TypeApp, "Snapshot format v%d, expected v%d; loading as-is", storage.Version, models.StorageFormatVersion)
	}

	f.store.Restore(storage.Rows)
	f.logger.Infof(providers.TypeApp, "Restored %d rows from %s", len(storage.Rows), fileName)
	return nil
}

func (f *FileStore) Close() {
	f.compressor.Close()
}
