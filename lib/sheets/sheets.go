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

// Package sheets reads the document register out of a Google Sheets
// worksheet. The spreadsheet is addressed by name, not id, so the Drive api
// is used to resolve it first - the service account only needs read access to
// the file.
package sheets

import (
	"context"
	"fmt"
	"strings"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"
)

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

type Config struct {
	SpreadsheetName string `mapstructure:"spreadsheet_name"`
	WorksheetName   string `mapstructure:"worksheet_name"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// NotFoundError reports that the configured spreadsheet or worksheet does not
// exist (or the service account cannot see it).
type NotFoundError struct {
	Kind string // "spreadsheet" or "worksheet"
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// Client reads all rows of the configured worksheet, first row included.
type Client interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

// New builds a Client from the service account credential in conf. Extra
// options are appended after the credential ones so tests can redirect the
// api endpoints.
func New(ctx context.Context, conf Config, opts ...option.ClientOption) (Client, error) {
	baseOpts := []option.ClientOption{
		option.WithScopes(driveapi.DriveReadonlyScope, sheetsapi.SpreadsheetsReadonlyScope),
	}
	if conf.CredentialsFile != "" {
		baseOpts = append(baseOpts, option.WithCredentialsFile(conf.CredentialsFile))
	}
	baseOpts = append(baseOpts, opts...)

	drive, err := driveapi.NewService(ctx, baseOpts...)
	if err != nil {
		return nil, fmt.Errorf("building drive service: %w", err)
	}

	sheets, err := sheetsapi.NewService(ctx, baseOpts...)
	if err != nil {
		return nil, fmt.Errorf("building sheets service: %w", err)
	}

	return &client{
		drive:  drive,
		sheets: sheets,
		conf:   conf,
	}, nil
}

type client struct {
	drive  *driveapi.Service
	sheets *sheetsapi.Service
	conf   Config
}

func (c *client) ReadRows(ctx context.Context) ([][]string, error) {
	id, err := c.resolveSpreadsheet(ctx)
	if err != nil {
		return nil, err
	}

	if err := c.checkWorksheet(ctx, id); err != nil {
		return nil, err
	}

	values, err := c.sheets.Spreadsheets.Values.
		Get(id, fmt.Sprintf("'%s'", c.conf.WorksheetName)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("reading worksheet %q: %w", c.conf.WorksheetName, err)
	}

	rows := make([][]string, len(values.Values))
	for i, raw := range values.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}

	return rows, nil
}

func (c *client) resolveSpreadsheet(ctx context.Context) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		escapeQuery(c.conf.SpreadsheetName), spreadsheetMimeType)

	list, err := c.drive.Files.List().
		Q(query).
		PageSize(1).
		Fields("files(id, name)").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("resolving spreadsheet %q: %w", c.conf.SpreadsheetName, err)
	}

	if len(list.Files) == 0 {
		return "", NotFoundError{Kind: "spreadsheet", Name: c.conf.SpreadsheetName}
	}

	return list.Files[0].Id, nil
}

func (c *client) checkWorksheet(ctx context.Context, id string) error {
	meta, err := c.sheets.Spreadsheets.Get(id).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("reading spreadsheet metadata: %w", err)
	}

	for _, sheet := range meta.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.conf.WorksheetName {
			return nil
		}
	}

	return NotFoundError{Kind: "worksheet", Name: c.conf.WorksheetName}
}

func escapeQuery(name string) string {
	return strings.ReplaceAll(name, "'", `\'`)
}
