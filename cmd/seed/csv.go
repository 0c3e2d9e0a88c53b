package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/robotshop/shipping/internal/db"
)

func readCodesFile(path string) ([]db.Code, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open codes: %w", err)
	}
	defer f.Close()
	return readCodes(f)
}

func readCitiesFile(path string) ([]db.City, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cities: %w", err)
	}
	defer f.Close()
	return readCities(f)
}

// readCodes parses code,name rows. A header row is skipped.
func readCodes(r io.Reader) ([]db.Code, error) {
	rows, err := readRows(r, 2)
	if err != nil {
		return nil, fmt.Errorf("codes: %w", err)
	}
	codes := make([]db.Code, 0, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "code") {
			continue
		}
		code := strings.ToLower(strings.TrimSpace(row[0]))
		if len(code) != 2 {
			return nil, fmt.Errorf("codes: line %d: invalid code %q", i+1, row[0])
		}
		codes = append(codes, db.Code{Code: code, Name: strings.TrimSpace(row[1])})
	}
	return codes, nil
}

// readCities parses uuid,country_code,city,name,region,latitude,longitude rows
func readCities(r io.Reader) ([]db.City, error) {
	rows, err := readRows(r, 7)
	if err != nil {
		return nil, fmt.Errorf("cities: %w", err)
	}
	cities := make([]db.City, 0, len(rows))
	for i, row := range rows {
		if i == 0 && strings.EqualFold(row[0], "uuid") {
			continue
		}
		id, err := strconv.ParseUint(strings.TrimSpace(row[0]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("cities: line %d: invalid uuid %q", i+1, row[0])
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return nil, fmt.Errorf("cities: line %d: invalid latitude %q", i+1, row[5])
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(row[6]), 64)
		if err != nil {
			return nil, fmt.Errorf("cities: line %d: invalid longitude %q", i+1, row[6])
		}
		cities = append(cities, db.City{
			UUID:        uint(id),
			CountryCode: strings.ToLower(strings.TrimSpace(row[1])),
			City:        strings.TrimSpace(row[2]),
			Name:        strings.TrimSpace(row[3]),
			Region:      strings.TrimSpace(row[4]),
			Latitude:    lat,
			Longitude:   lon,
		})
	}
	return cities, nil
}

func readRows(r io.Reader, fields int) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = fields
	cr.TrimLeadingSpace = true
	return cr.ReadAll()
}
