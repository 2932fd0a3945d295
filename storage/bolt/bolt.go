/* Copyright 2018 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package bolt is a storage.Storage backed by a BoltDB file.
package bolt

import (
	"context"
	"time"

	"github.com/Comcast/choose/storage"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// Bucket is the name of the bucket that holds table sources.
var Bucket = []byte("tables")

type Storage struct {
	// Logger, if not nil, gets debug entries for each operation.
	Logger *zap.Logger

	filename string
	db       *bolt.DB
}

func NewStorage(filename string) (*Storage, error) {
	return &Storage{
		filename: filename,
		Logger:   zap.NewNop(),
	}, nil
}

func (s *Storage) Open(ctx context.Context) error {
	opts := &bolt.Options{
		Timeout: time.Second,
	}

	db, err := bolt.Open(s.filename, 0644, opts)
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(Bucket)
		return err
	})
	if err != nil {
		db.Close()
		return err
	}

	s.db = db
	return nil
}

func (s *Storage) Close(ctx context.Context) error {
	return s.db.Close()
}

func (s *Storage) logf(op string, fields ...zap.Field) {
	if s.Logger != nil {
		s.Logger.Debug("bolt storage "+op, fields...)
	}
}

func (s *Storage) PutTable(ctx context.Context, name string, src []byte) error {
	s.logf("PutTable", zap.String("table", name), zap.Int("bytes", len(src)))
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(Bucket).Put([]byte(name), src)
	})
}

func (s *Storage) GetTable(ctx context.Context, name string) ([]byte, error) {
	s.logf("GetTable", zap.String("table", name))
	var src []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		bs := tx.Bucket(Bucket).Get([]byte(name))
		if bs == nil {
			return storage.NotFound
		}
		// Only valid during the transaction.
		src = append([]byte(nil), bs...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return src, nil
}

func (s *Storage) RemTable(ctx context.Context, name string) error {
	s.logf("RemTable", zap.String("table", name))
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(Bucket)
		key := []byte(name)
		if b.Get(key) == nil {
			return storage.NotFound
		}
		return b.Delete(key)
	})
}

func (s *Storage) ListTables(ctx context.Context) ([]string, error) {
	names := make([]string, 0, 32)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(Bucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			names = append(names, string(k))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logf("ListTables", zap.Int("found", len(names)))
	return names, nil
}
