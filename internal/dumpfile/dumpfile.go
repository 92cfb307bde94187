// Package dumpfile handles Wikipedia SQL dump file naming and opening.
// Dump files are named WIKI-YYYYMMDD-TABLE.sql or .sql.gz, for example
// enwiki-20200920-page.sql.gz.
package dumpfile

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var filePattern = regexp.MustCompile(
	`^(?P<basename>(?P<wiki>[a-z]+)-(?P<yyyymmdd>\d{8})-(?P<table_name>\w+))(?P<extension>\.sql(\.gz)?)$`,
)

// DumpFile describes one dump file parsed from its name
type DumpFile struct {
	Path       string
	Wiki       string // wikipedia language prefix, e.g. "en"
	Date       string // YYYYMMDD
	Table      string
	Basename   string // name without extension
	Compressed bool
}

// Parse extracts wiki, date and table from a dump file path
func Parse(path string) (*DumpFile, error) {
	base := filepath.Base(path)
	match := filePattern.FindStringSubmatch(base)
	if match == nil {
		return nil, fmt.Errorf(
			"dump file name %q does not match the pattern WIKI-YYYYMMDD-TABLE.sql[.gz]", base)
	}

	groups := make(map[string]string)
	for i, name := range filePattern.SubexpNames() {
		if name != "" {
			groups[name] = match[i]
		}
	}

	return &DumpFile{
		Path:       path,
		Wiki:       groups["wiki"],
		Date:       groups["yyyymmdd"],
		Table:      groups["table_name"],
		Basename:   groups["basename"],
		Compressed: strings.HasSuffix(groups["extension"], ".gz"),
	}, nil
}

// Open opens the dump file for reading, decompressing transparently when
// the file is gzip-compressed
func (d *DumpFile) Open() (io.ReadCloser, error) {
	f, err := os.Open(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open dump file: %w", err)
	}

	if !d.Compressed {
		return f, nil
	}

	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	return &gzipReadCloser{gz: gz, f: f}, nil
}

// DefaultOutputName returns the conventional CSV output name for this dump
func (d *DumpFile) DefaultOutputName() string {
	return d.Basename + ".csv"
}

// gzipReadCloser closes both the gzip stream and the underlying file
type gzipReadCloser struct {
	gz *gzip.Reader
	f  *os.File
}

func (g *gzipReadCloser) Read(p []byte) (int, error) {
	return g.gz.Read(p)
}

func (g *gzipReadCloser) Close() error {
	gzErr := g.gz.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gzErr
}
