package models

// StorageV1 is the on-disk persistence envelope: the full row set plus an
// explicit version field for future format migrations.
type StorageV1 struct {
	Version int            `json:"version"`
	Rows    map[string]Row `json:"rows"`
}

const StorageFormatVersion = 1
