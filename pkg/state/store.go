// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package state

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// FileName is the checksum store kept at the destination root
const FileName = ".archiverc.db"

// Record is one archived file, keyed by its destination-relative name
type Record struct {
	Name        string    `gorm:"primaryKey;column:name"`
	Checksum    string    `gorm:"column:checksum;not null;index:idx_checksum_size"`
	Size        int64     `gorm:"column:size;not null;index:idx_checksum_size"`
	ContentTime time.Time `gorm:"column:content_time"`
	InsertedAt  time.Time `gorm:"column:inserted_at"`
}

func (Record) TableName() string { return "archived_files" }

// 🗃️ Store is the duplicate index for one destination root.
// All reads and writes go through a single transaction that lives for the whole run.
type Store struct {
	path   string
	dryRun bool
	db     *gorm.DB
	tx     *gorm.DB
}

// 🔓 Open opens (or creates) the store under root and begins the run transaction.
// In dry-run mode nothing is ever committed, and a missing store is replaced by an in-memory one.
func Open(ctx context.Context, root string, dryRun bool) (*Store, error) {
	logger := zerolog.Ctx(ctx)
	path := filepath.Join(root, FileName)

	dsn := path
	if _, err := os.Stat(path); err != nil {
		if dryRun {
			dsn = ":memory:"
		} else if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, errors.Errorf("creating destination root: %w", err)
		}
	}

	logger.Debug().Str("dsn", dsn).Bool("dry_run", dryRun).Msg("opening checksum store")

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, errors.Errorf("opening checksum store %s: %w", dsn, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Errorf("getting checksum store handle: %w", err)
	}
	// one connection so an in-memory database is shared by migration and transaction
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Record{}); err != nil {
		_ = sqlDB.Close()
		return nil, errors.Errorf("migrating checksum store: %w", err)
	}

	tx := db.Begin()
	if tx.Error != nil {
		_ = sqlDB.Close()
		return nil, errors.Errorf("beginning transaction: %w", tx.Error)
	}

	return &Store{path: path, dryRun: dryRun, db: db, tx: tx}, nil
}

// Path returns the store file location, even when the store is in memory
func (s *Store) Path() string {
	return s.path
}

// 🔍 Lookup returns the record with the same checksum and size, or nil
func (s *Store) Lookup(ctx context.Context, checksum string, size int64) (*Record, error) {
	var recs []Record
	err := s.tx.WithContext(ctx).
		Where("checksum = ? AND size = ?", checksum, size).
		Order("name").
		Limit(1).
		Find(&recs).Error
	if err != nil {
		return nil, errors.Errorf("looking up checksum %s: %w", checksum, err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// 📝 Insert records rec, replacing any earlier record with the same name.
// The record is visible to later lookups in the same run.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if rec.InsertedAt.IsZero() {
		rec.InsertedAt = time.Now()
	}
	err := s.tx.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(rec).Error
	if err != nil {
		return errors.Errorf("inserting %s: %w", rec.Name, err)
	}
	return nil
}

// Count returns the number of records visible in the run transaction
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.tx.WithContext(ctx).Model(&Record{}).Count(&n).Error; err != nil {
		return 0, errors.Errorf("counting records: %w", err)
	}
	return n, nil
}

// 💾 Close commits the run transaction, or rolls it back in dry-run mode, and closes the database.
func (s *Store) Close(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)

	var txErr error
	if s.dryRun {
		logger.Debug().Str("path", s.path).Msg("dry run, rolling back checksum store")
		txErr = s.tx.Rollback().Error
	} else {
		logger.Debug().Str("path", s.path).Msg("committing checksum store")
		txErr = s.tx.Commit().Error
	}

	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.Close()
	}

	if txErr != nil {
		return errors.Errorf("finishing transaction: %w", txErr)
	}
	if err != nil {
		return errors.Errorf("closing checksum store: %w", err)
	}
	return nil
}
