// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/danielhkuo/keystone-adops/models"
)

// ErrNoSnapshot is returned by Load when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no campaign snapshot")

// Backend names accepted by Open.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Snapshots keeps a copy of the last full campaign listing so the API can
// answer while the database is empty.
type Snapshots interface {
	Save(ctx context.Context, list models.CampaignList) error
	Load(ctx context.Context) (models.CampaignList, error)
	Kind() string
	Close() error
}

// Open builds the configured backend.
func Open(backend, file, redisURL string) (Snapshots, error) {
	switch backend {
	case BackendFile:
		return NewFileSnapshots(file), nil
	case BackendRedis:
		return NewRedisSnapshots(redisURL, DefaultRedisKey)
	case BackendNone, "":
		return None{}, nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

// FileSnapshots stores the snapshot as a JSON file.
type FileSnapshots struct {
	path string
}

func NewFileSnapshots(path string) *FileSnapshots {
	return &FileSnapshots{path: path}
}

func (f *FileSnapshots) Kind() string { return BackendFile }

func (f *FileSnapshots) Close() error { return nil }

// Save writes to a temporary file and renames it over the old snapshot so
// readers never see a partial file.
func (f *FileSnapshots) Save(_ context.Context, list models.CampaignList) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

func (f *FileSnapshots) Load(_ context.Context) (models.CampaignList, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.CampaignList{}, ErrNoSnapshot
	}
	if err != nil {
		return models.CampaignList{}, fmt.Errorf("read snapshot: %w", err)
	}
	return decode(data)
}

// None disables snapshots.
type None struct{}

func (None) Kind() string { return BackendNone }
func (None) Close() error { return nil }
func (None) Save(context.Context, models.CampaignList) error { return nil }
func (None) Load(context.Context) (models.CampaignList, error) { return models.CampaignList{}, ErrNoSnapshot }

func decode(data []byte) (models.CampaignList, error) {
	var list models.CampaignList
	if err := json.Unmarshal(data, &list); err != nil {
		return models.CampaignList{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if list.Brand == nil {
		list.Brand = []models.Campaign{}
	}
	if list.LeadGen == nil {
		list.LeadGen = []models.Campaign{}
	}
	return list, nil
}
