/*
 * Copyright 2024 TecnoMovil
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mapping turns the raw worksheet rows into the IMEI->document-URL
// snapshot the request handler looks keys up in.
package mapping

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Snapshot is one immutable materialisation of the worksheet. Lookups are
// exact, case-sensitive string matches.
type Snapshot map[string]string

func (s Snapshot) Lookup(imei string) (string, bool) {
	url, ok := s[imei]
	return url, ok
}

// Columns names the two worksheet headers of interest.
type Columns struct {
	Identifier string `mapstructure:"identifier"`
	Reference  string `mapstructure:"reference"`
}

// Build reduces worksheet rows (first row = headers) to a Snapshot.
//
// Rows missing either value are skipped. Keys and values are trimmed of
// whitespace and dropped when empty. When a key appears on several rows the
// last row wins.
func Build(rows [][]string, cols Columns) Snapshot {
	if len(rows) == 0 {
		return Snapshot{}
	}

	identifierIdx, referenceIdx := -1, -1
	for i, header := range rows[0] {
		switch strings.TrimSpace(header) {
		case cols.Identifier:
			identifierIdx = i
		case cols.Reference:
			referenceIdx = i
		}
	}
	if identifierIdx < 0 || referenceIdx < 0 {
		log.Warn().
			Str("identifier", cols.Identifier).
			Str("reference", cols.Reference).
			Msg("configured columns not present in header row")
		return Snapshot{}
	}

	snapshot := make(Snapshot, len(rows)-1)
	for _, row := range rows[1:] {
		key := strings.TrimSpace(cell(row, identifierIdx))
		url := strings.TrimSpace(cell(row, referenceIdx))
		if key == "" || url == "" {
			continue
		}
		snapshot[key] = url
	}

	return snapshot
}

// cell treats a short row as having empty trailing columns.
func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

// RowSource is the worksheet reader, satisfied by sheets.Client.
type RowSource interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// Loader produces a fresh Snapshot.
type Loader interface {
	Load(ctx context.Context) (Snapshot, error)
}

// NewSheetLoader builds Snapshots from a worksheet.
func NewSheetLoader(source RowSource, cols Columns) Loader {
	return &sheetLoader{source: source, cols: cols}
}

type sheetLoader struct {
	source RowSource
	cols   Columns
}

func (l *sheetLoader) Load(ctx context.Context) (Snapshot, error) {
	rows, err := l.source.ReadRows(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := Build(rows, l.cols)
	log.Info().Int("entries", len(snapshot)).Msg("snapshot loaded")
	return snapshot, nil
}
